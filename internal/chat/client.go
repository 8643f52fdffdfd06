// Package chat provides the paginated message client: bounded,
// validated access to chat history and message sending against the
// storefront backend.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"unicode/utf8"

	"github.com/vietddude/storefront/internal/core/domain"
	"github.com/vietddude/storefront/internal/infra/api"
)

const (
	// MaxLimit is the largest page size the backend accepts.
	MaxLimit = 100

	// MaxMessageLength is the longest message_text the backend accepts,
	// in Unicode code points.
	MaxMessageLength = 2000
)

// Client fetches and sends chat messages. Reads degrade to an empty,
// well-formed page when retries are exhausted on a network failure;
// writes always propagate their error.
type Client struct {
	exec  *api.Executor
	retry api.RetryConfig
	log   *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithRetryConfig overrides the default retry policy.
func WithRetryConfig(cfg api.RetryConfig) ClientOption {
	return func(c *Client) { c.retry = cfg }
}

// WithLogger sets the client logger.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) { c.log = log }
}

// NewClient creates a chat client over the given executor.
func NewClient(exec *api.Executor, opts ...ClientOption) *Client {
	c := &Client{
		exec:  exec,
		retry: api.DefaultRetryConfig,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// wire shapes; total_count is a pointer so a missing value can be
// distinguished from an explicit zero. Everything else in the
// pagination block is rederived locally, see normalizePage.
type messagesResponse struct {
	Messages    []domain.Message `json:"messages"`
	Pagination  *wirePagination  `json:"pagination"`
	UnreadCount int              `json:"unread_count"`
	SessionInfo *domain.Session  `json:"session_info"`
}

type wirePagination struct {
	TotalCount *int `json:"total_count"`
}

// Messages returns one page of session history. Validation failures
// surface before any request is issued. A network failure that
// survives the retry budget degrades to an empty page so dashboard
// readers never observe an error; protocol violations are returned
// as-is since retrying or hiding a contract break helps nobody.
func (c *Client) Messages(ctx context.Context, req domain.PageRequest) (*domain.MessagePage, error) {
	if err := validatePageRequest(&req); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("offset", strconv.Itoa(req.Offset))
	q.Set("order", string(req.Order))

	var raw messagesResponse
	err := c.exec.Do(ctx, api.Request{
		Name:   "chat.messages",
		Method: http.MethodGet,
		Path:   messagesPath(req.ProductID, req.SessionID),
		Query:  q,
	}, c.retry, &raw)
	if err != nil {
		switch api.KindOf(err) {
		case api.KindProtocol, api.KindValidation:
			return nil, err
		}
		c.log.Warn("message history unavailable, serving empty page",
			"product_id", req.ProductID,
			"session_id", req.SessionID,
			"error", err,
		)
		return emptyPage(req), nil
	}

	return normalizePage(req, &raw), nil
}

// Send creates a new message in the session. Unlike reads, a send
// never degrades: any failure left after retries is returned.
func (c *Client) Send(ctx context.Context, productID int64, sessionID string, draft domain.MessageDraft) (*domain.Message, error) {
	if productID <= 0 {
		return nil, api.Validationf("product id must be positive, got %d", productID)
	}
	if sessionID == "" {
		return nil, api.Validationf("session id must not be empty")
	}
	if draft.MessageText == "" {
		return nil, api.Validationf("message_text must not be empty")
	}
	if n := utf8.RuneCountInString(draft.MessageText); n > MaxMessageLength {
		return nil, api.Validationf("message_text too long: %d characters, max %d", n, MaxMessageLength)
	}
	if draft.SenderType == "" {
		draft.SenderType = domain.SenderCustomer
	}
	if draft.MessageType == "" {
		draft.MessageType = domain.MessageTypeText
	}

	var msg domain.Message
	err := c.exec.Do(ctx, api.Request{
		Name:   "chat.send",
		Method: http.MethodPost,
		Path:   messagesPath(productID, sessionID),
		Body:   draft,
	}, c.retry, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func messagesPath(productID int64, sessionID string) string {
	return fmt.Sprintf("/products/%d/chat/sessions/%s/messages", productID, url.PathEscape(sessionID))
}

// validatePageRequest checks caller input and fills the order default.
// Each violation names the offending parameter.
func validatePageRequest(req *domain.PageRequest) error {
	if req.ProductID <= 0 {
		return api.Validationf("product id must be positive, got %d", req.ProductID)
	}
	if req.SessionID == "" {
		return api.Validationf("session id must not be empty")
	}
	if req.Limit < 1 || req.Limit > MaxLimit {
		return api.Validationf("limit must be in [1, %d], got %d", MaxLimit, req.Limit)
	}
	if req.Offset < 0 {
		return api.Validationf("offset must be >= 0, got %d", req.Offset)
	}
	switch req.Order {
	case "":
		req.Order = domain.OrderDesc
	case domain.OrderAsc, domain.OrderDesc:
	default:
		return api.Validationf("order must be asc or desc, got %q", req.Order)
	}
	return nil
}

// normalizePage derives every pagination field from the request and
// the server's total count, so page invariants hold regardless of
// which sub-fields the backend actually sent.
func normalizePage(req domain.PageRequest, raw *messagesResponse) *domain.MessagePage {
	totalCount := 0
	if raw.Pagination != nil && raw.Pagination.TotalCount != nil {
		totalCount = *raw.Pagination.TotalCount
	} else if len(raw.Messages) > 0 {
		// Total missing: the page itself is the only lower bound.
		totalCount = req.Offset + len(raw.Messages)
	}

	items := raw.Messages
	if items == nil {
		items = []domain.Message{}
	}

	page := &domain.MessagePage{
		Items:       items,
		Pagination:  buildPagination(totalCount, req.Limit, req.Offset),
		UnreadCount: raw.UnreadCount,
		Session:     raw.SessionInfo,
	}
	return page
}

func buildPagination(totalCount, limit, offset int) domain.Pagination {
	return domain.Pagination{
		TotalCount:  totalCount,
		Limit:       limit,
		Offset:      offset,
		HasMore:     offset+limit < totalCount,
		HasPrevious: offset > 0,
		CurrentPage: offset/limit + 1,
		TotalPages:  (totalCount + limit - 1) / limit,
	}
}

func emptyPage(req domain.PageRequest) *domain.MessagePage {
	return &domain.MessagePage{
		Items:      []domain.Message{},
		Pagination: buildPagination(0, req.Limit, req.Offset),
	}
}

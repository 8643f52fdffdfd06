package main

import "github.com/vietddude/storefront/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/mvp-joe/beangraph/internal/cli"

func main() {
	cli.Execute()
}

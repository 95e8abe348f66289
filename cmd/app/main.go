package main

import "metatag-auditor/internal/cli"

func main() {
	cli.Execute()
}

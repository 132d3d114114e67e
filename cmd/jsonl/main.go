package main

import (
	"os"

	"github.com/byu-imaal/dns-cookies-pam21/cli"
)

func main() {
	os.Exit(cli.Execute())
}

package main

import (
	"os"

	"github.com/rogerio-castellano/storefront/cmd/storefront/commands"
)

// @title Storefront API
// @version 1.0
// @description Product catalog and session cart API for the storefront.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey CartToken
// @in header
// @name X-Cart-Token
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

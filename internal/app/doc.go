// Package app wires the storefront services from Config.
//
// It opens the configured persistence backend, the optional event feed and
// the domain services on top of them, exposing everything through App for
// the HTTP server and the CLI commands.
package app

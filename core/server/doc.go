// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for server settings such as the listen port
// and the API key protecting the render endpoints.
//
// # Configuration
//
// The Config struct defines the HTTP port and API key. An empty API key disables
// authentication, which is the expected setup for a localhost-only deployment.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by the serve command to build the listen address.
package server

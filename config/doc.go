// Package config provides configuration loading and validation for dirshare.
//
// The package handles TOML configuration files, environment variables, and
// CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file (./dirshare.toml or --config)
//  3. Environment variables (DIRSHARE_ prefix)
//  4. CLI flags
//
// # Environment Variables
//
// All config keys map to environment variables with DIRSHARE_ prefix:
//   - server.port → DIRSHARE_SERVER_PORT
//   - auth.username → DIRSHARE_AUTH_USERNAME
//   - session.backend → DIRSHARE_SESSION_BACKEND
//
// # Example
//
//	[server]
//	port = 9080
//
//	[[routes]]
//	label = "photos"
//	path = "~/Pictures"
//
//	[[routes]]
//	label = "docs"
//	path = "~/Documents"
//
//	[auth]
//	username = "admin"
//	password = "$2a$10$..."   # dirshare passwd
//	scheme = "form"
//
//	[uploads]
//	enabled = true
//
//	[session]
//	backend = "sqlite"
//	dsn = "sessions.db"
//	ttl = "24h"
package config

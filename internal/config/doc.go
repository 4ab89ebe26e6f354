// Package config handles configuration loading for backpack.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from BACKPACK_CONFIG environment variable
//  2. ./config.yaml (current directory)
//  3. ~/.config/backpack/config.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	tailscale:
//	  auth_key: "${TS_AUTHKEY}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  oauth_token_ttl: "1h"
//	  session_max_age: "720h"
//
// Supported units: ns, us, ms, s, m, h
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "0.0.0.0:8080"   # Web app and protocol endpoint
//
// Database:
//
//	database:
//	  path: "/var/lib/backpack/backpack.db"
//
// Authentication:
//
//	auth:
//	  password_scheme: "sha256"   # sha256 (default) or bcrypt
//	  oauth_token_ttl: "1h"
//	  session_max_age: "720h"
//
// Web:
//
//	web:
//	  base_url: "https://backpack.example.com"
//
// Tailscale:
//
//	tailscale:
//	  enabled: false
//	  hostname: "backpack"
//	  auth_key: "${TS_AUTHKEY}"
//	  funnel: false
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load("/etc/backpack/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

// Package config loads and validates application configuration.
//
// Configuration comes from an optional config.yaml in the working directory
// and from environment variables prefixed with BLOCKPLAN_ (e.g.
// BLOCKPLAN_SERVER_PORT, BLOCKPLAN_DATABASE_URL). Environment variables take
// precedence over file values. The loaded Config is validated with
// go-playground/validator struct tags before it is returned.
package config

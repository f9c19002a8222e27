// Package config defines the application configuration structure and
// loading logic. Configuration comes from an optional config.yaml and
// DECK_-prefixed environment variables, with struct-tag validation
// applied after unmarshalling.
package config

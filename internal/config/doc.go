// Package config defines the application's configuration structure and
// loading logic. Configuration comes from an optional YAML file plus
// FLASHDECK_-prefixed environment variables, with env vars taking precedence,
// and is validated before use.
package config

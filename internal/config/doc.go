// Package config loads, normalizes, and validates fanki configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads an optional .env file, and honours
// environment fallbacks such as FANKI_ROOT, AWS_PROFILE, and AWS_REGION. The
// Config type centralizes every directory and external-service setting a deck
// build needs, so the CLI never derives locations from the running binary.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config

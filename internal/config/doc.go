// Package config loads, normalizes, and validates daemon and CLI configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// CLAW_WRITER_API_KEY and CLAW_JWT_SECRET (optionally sourced from a .env
// file). The Config type centralizes every knob the daemon and CLI need, so
// data directories, engine pacing, and external service credentials are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

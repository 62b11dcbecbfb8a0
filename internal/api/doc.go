// Package api defines the transport DTOs shared by the HTTP server, the CLI
// client, and their tests. Conversion helpers translate persistence and
// engine types into the camelCase JSON shapes the wire contract uses; the
// DTOs deliberately carry strings and plain numbers only, so clients never
// depend on internal types.
package api

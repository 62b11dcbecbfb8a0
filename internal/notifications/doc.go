// Package notifications delivers engine events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. The Service methods cover the milestones owners care about
// (article ready, batch progress, errors) so engine code can emit consistent
// messages without duplicating HTTP glue.
//
// Extend this package if you need alternative transports; all engine code
// depends only on the simple Service interface.
package notifications

// Package queue persists content queue items in SQLite and exposes helpers
// for driving their lifecycle.
//
// The Store manages database connections, schema initialization, owner-scoped
// CRUD, stats queries, and the status-guarded claim statements that implement
// the pending/processing/done/error state machine. Every mutation that moves
// an item between statuses is a single UPDATE conditioned on the current
// status, so concurrent runs cannot double-claim a row and terminal states
// stay terminal.
//
// The same database file also holds credit accounts and owner profiles;
// sibling packages reach them through Store.DB. Schema changes bump the
// version in schema.go; users delete the database to adopt the new schema.
package queue

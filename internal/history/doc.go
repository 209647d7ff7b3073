// Package history records REPL input lines so they can be listed and
// searched across sessions.
//
// SQLiteStore persists entries in a WAL-mode SQLite database; MemoryStore
// backs sessions where persistence is disabled.
package history

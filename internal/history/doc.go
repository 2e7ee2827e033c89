// Package history persists batch runs and their per-file outcomes in a
// SQLite database under the state directory. It is a record, not a queue:
// nothing resumes from it, the CLI only reports it.
package history

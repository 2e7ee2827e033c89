// Package batch drives the sequential video-to-subtitle pipeline: discover
// files, invoke the transcriber per file, apply the configured subtitle
// offset, and keep the run state that the CLI polls for progress.
//
// One goroutine runs the batch; any other goroutine may call Stop or
// Snapshot. A single file's failure never aborts the run.
package batch

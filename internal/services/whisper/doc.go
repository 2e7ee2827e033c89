// Package whisper invokes the external whisper CLI to produce SRT files.
//
// The invocation is opaque: srtforge passes a file path plus the preset's
// tuning flags and trusts the tool to write "<stem>.srt" into the output
// directory. The only control exercised over a running transcription is
// cooperative cancellation, which kills the child process.
package whisper

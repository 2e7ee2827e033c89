// Package srt handles SRT timestamp parsing and the time-offset rewrite
// applied to generated subtitle files.
//
// Only cue timing lines ("start --> end") are ever modified; sequence
// numbers, payload text, and blank lines pass through byte-for-byte.
package srt

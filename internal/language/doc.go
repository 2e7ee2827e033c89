// Package language maps between user-facing language names and the ISO 639-1
// codes the transcriber accepts. An empty code means auto-detect.
package language

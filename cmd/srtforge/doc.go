// Command srtforge generates SRT subtitles for folders of video files by
// driving an external whisper-compatible transcriber, one file at a time.
package main

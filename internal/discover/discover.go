// Package discover enumerates candidate video files beneath a folder.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// File is a discovered video file. Identity is the path; the size feeds the
// processing-time estimate.
type File struct {
	Path string
	Size int64
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".avi":  {},
	".mkv":  {},
	".mov":  {},
	".wmv":  {},
	".flv":  {},
	".webm": {},
	".m4v":  {},
	".mpg":  {},
	".mpeg": {},
}

// IsVideo reports whether the path carries a supported video extension.
// Matching is case-insensitive.
func IsVideo(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Find walks root recursively and returns every video file sorted by path,
// so repeated runs over an unchanged tree process files in the same order.
func Find(root string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !IsVideo(path) {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		files = append(files, File{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// TotalSize sums the byte sizes of the listing.
func TotalSize(files []File) int64 {
	var total int64
	for _, file := range files {
		total += file.Size
	}
	return total
}

// SubtitlePath returns the target SRT path for a video: same directory, same
// stem, ".srt" extension.
func SubtitlePath(videoPath string) string {
	ext := filepath.Ext(videoPath)
	return strings.TrimSuffix(videoPath, ext) + ".srt"
}

package srt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArrowSeparator joins the start and end timestamps on an SRT cue timing line.
const ArrowSeparator = " --> "

// ShiftLines rewrites every cue timing line by offsetSeconds and returns the
// resulting document. A zero offset returns the input untouched. Lines that
// merely contain the arrow but do not split into exactly two non-empty halves
// are never rewritten, and a half that fails to parse is kept verbatim.
func ShiftLines(lines []string, offsetSeconds float64) []string {
	if offsetSeconds == 0 {
		return lines
	}
	shifted := make([]string, len(lines))
	for i, line := range lines {
		shifted[i] = shiftTimingLine(line, offsetSeconds)
	}
	return shifted
}

func shiftTimingLine(line string, offsetSeconds float64) string {
	if !strings.Contains(line, "-->") {
		return line
	}
	halves := strings.Split(strings.TrimSpace(line), ArrowSeparator)
	if len(halves) != 2 || halves[0] == "" || halves[1] == "" {
		return line
	}
	return shiftValue(halves[0], offsetSeconds) + ArrowSeparator + shiftValue(halves[1], offsetSeconds)
}

// shiftValue shifts a single timestamp string, returning the original text
// when it does not decode.
func shiftValue(value string, offsetSeconds float64) string {
	ts, err := ParseTimestamp(value)
	if err != nil {
		return value
	}
	return ts.Shift(offsetSeconds).String()
}

// ShiftFile applies ShiftLines to the document at path and replaces it via a
// temp-file rename, so a failure at any point leaves the original untouched.
func ShiftFile(path string, offsetSeconds float64) error {
	if offsetSeconds == 0 {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read subtitle: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat subtitle: %w", err)
	}

	// Normalize Windows line endings before transforming, otherwise rewritten
	// timing lines would lose their \r while untouched lines keep it.
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	output := strings.Join(ShiftLines(lines, offsetSeconds), "\n")

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".shift-*")
	if err != nil {
		return fmt.Errorf("create temp subtitle: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(output); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp subtitle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp subtitle: %w", err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("chmod temp subtitle: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace subtitle: %w", err)
	}
	return nil
}

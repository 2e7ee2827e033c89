package srt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShiftLinesRewritesTimingLines(t *testing.T) {
	lines := []string{
		"1",
		"00:00:01,000 --> 00:00:02,500",
		"Hello there.",
		"",
		"2",
		"00:00:03,000 --> 00:00:04,000",
		"General Kenobi.",
		"",
	}
	shifted := ShiftLines(lines, 1.75)
	if shifted[1] != "00:00:02,750 --> 00:00:04,250" {
		t.Errorf("unexpected first timing line: %q", shifted[1])
	}
	if shifted[5] != "00:00:04,750 --> 00:00:05,750" {
		t.Errorf("unexpected second timing line: %q", shifted[5])
	}
	for _, i := range []int{0, 2, 3, 4, 6, 7} {
		if shifted[i] != lines[i] {
			t.Errorf("line %d altered: %q -> %q", i, lines[i], shifted[i])
		}
	}
}

func TestShiftLinesClampsBothTimestamps(t *testing.T) {
	shifted := ShiftLines([]string{"00:00:01,000 --> 00:00:02,500"}, -5)
	if shifted[0] != "00:00:00,000 --> 00:00:00,000" {
		t.Errorf("expected both halves clamped, got %q", shifted[0])
	}
}

func TestShiftLinesZeroOffsetIsIdentity(t *testing.T) {
	lines := []string{"1", "00:00:01,000 --> 00:00:02,500", "text"}
	shifted := ShiftLines(lines, 0)
	for i := range lines {
		if shifted[i] != lines[i] {
			t.Errorf("zero offset changed line %d", i)
		}
	}
}

func TestShiftLinesLeavesAmbiguousArrowLinesAlone(t *testing.T) {
	lines := []string{
		"see --> here --> twice",
		"--> leading",
		"trailing -->",
		"-->",
		"note: --> appears mid-sentence",
	}
	shifted := ShiftLines(lines, 2)
	for i := range lines {
		if shifted[i] != lines[i] {
			t.Errorf("ambiguous line %d altered: %q -> %q", i, lines[i], shifted[i])
		}
	}
}

func TestShiftLinesKeepsUnparseableHalves(t *testing.T) {
	shifted := ShiftLines([]string{"intro --> 00:00:02,000"}, 1)
	if shifted[0] != "intro --> 00:00:03,000" {
		t.Errorf("expected only the valid half shifted, got %q", shifted[0])
	}
}

func TestShiftFileRewritesInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "movie.srt")
	content := "1\n00:00:01,000 --> 00:00:02,500\nHello.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := ShiftFile(path, 1.75); err != nil {
		t.Fatalf("ShiftFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	want := "1\n00:00:02,750 --> 00:00:04,250\nHello.\n"
	if string(data) != want {
		t.Errorf("unexpected content:\n got %q\nwant %q", string(data), want)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

func TestShiftFileNormalizesWindowsLineEndings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.srt")
	content := "1\r\n00:00:01,000 --> 00:00:02,500\r\nHello.\r\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := ShiftFile(path, 1.75); err != nil {
		t.Fatalf("ShiftFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if strings.Contains(string(data), "\r") {
		t.Errorf("carriage returns survived the rewrite: %q", string(data))
	}
	want := "1\n00:00:02,750 --> 00:00:04,250\nHello.\n"
	if string(data) != want {
		t.Errorf("unexpected content:\n got %q\nwant %q", string(data), want)
	}
}

func TestShiftFileMissingFile(t *testing.T) {
	err := ShiftFile(filepath.Join(t.TempDir(), "absent.srt"), 1)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "read subtitle") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestShiftFileZeroOffsetNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.srt")
	if err := os.WriteFile(path, []byte("unchanged"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := ShiftFile(path, 0); err != nil {
		t.Fatalf("ShiftFile failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "unchanged" {
		t.Errorf("zero offset modified file: %q", string(data))
	}
}

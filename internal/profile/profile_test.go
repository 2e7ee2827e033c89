package profile

import (
	"errors"
	"testing"
)

func TestSelectKnownPresets(t *testing.T) {
	registry := NewRegistry()
	cases := []struct {
		name  string
		model string
	}{
		{UltraFast, "tiny"},
		{Fast, "base"},
		{Balanced, "small"},
	}
	for _, tc := range cases {
		preset, err := registry.Select(tc.name)
		if err != nil {
			t.Fatalf("Select(%q) failed: %v", tc.name, err)
		}
		if preset.Model != tc.model {
			t.Errorf("Select(%q).Model = %q, want %q", tc.name, preset.Model, tc.model)
		}
		if preset.Threads < 1 {
			t.Errorf("Select(%q).Threads = %d, want >= 1", tc.name, preset.Threads)
		}
		if preset.SecondsPerMB <= 0 {
			t.Errorf("Select(%q).SecondsPerMB = %v, want > 0", tc.name, preset.SecondsPerMB)
		}
	}
}

func TestSelectUnknownPreset(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Select("turbo")
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("expected ErrUnknown, got %v", err)
	}
}

func TestDefaultIsFast(t *testing.T) {
	registry := NewRegistry()
	if got := registry.Default().Name; got != Fast {
		t.Errorf("Default().Name = %q, want %q", got, Fast)
	}
}

func TestNamesSorted(t *testing.T) {
	names := NewRegistry().Names()
	want := []string{Balanced, Fast, UltraFast}
	if len(names) != len(want) {
		t.Fatalf("Names() length = %d, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestOverrideSecondsPerMB(t *testing.T) {
	registry := NewRegistry()
	if err := registry.OverrideSecondsPerMB(map[string]float64{Fast: 1.5}); err != nil {
		t.Fatalf("override failed: %v", err)
	}
	preset, err := registry.Select(Fast)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if preset.SecondsPerMB != 1.5 {
		t.Errorf("SecondsPerMB = %v, want 1.5", preset.SecondsPerMB)
	}

	if err := registry.OverrideSecondsPerMB(map[string]float64{"warp": 1}); !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown for bogus preset, got %v", err)
	}
	if err := registry.OverrideSecondsPerMB(map[string]float64{Fast: 0}); err == nil {
		t.Error("expected error for non-positive coefficient")
	}
}

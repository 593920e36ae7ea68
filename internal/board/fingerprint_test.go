package board

import (
	"strings"
	"testing"
	"time"
)

func TestCombinedID(t *testing.T) {
	morning := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 14, 22, 30, 0, 0, time.UTC)
	nextDay := morning.Add(24 * time.Hour)
	long := strings.Repeat("a", 50)

	tests := []struct {
		name    string
		a, b    string
		ta, tb  time.Time
		sameKey bool
	}{
		{"same content same day", "Sale 20% off", "Sale 20% off", morning, evening, true},
		{"whitespace ignored", "Sale  20%\noff", "Sale 20% off", morning, morning, true},
		{"different day", "Sale 20% off", "Sale 20% off", morning, nextDay, false},
		{"only first 50 runes count", long + " tail one", long + " tail two", morning, morning, true},
		{"different prefix", "Sale 20% off", "Sale 30% off", morning, morning, false},
		{"empty content", "", "", morning, evening, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CombinedID(tt.a, tt.ta) == CombinedID(tt.b, tt.tb)
			if got != tt.sameKey {
				t.Errorf("CombinedID(%q) == CombinedID(%q): got %v, want %v", tt.a, tt.b, got, tt.sameKey)
			}
		})
	}
}

func TestCombinedIDFormat(t *testing.T) {
	ts := time.Date(2025, 3, 14, 23, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	if got, want := CombinedID("Hello world", ts), "Helloworld_2025-03-15"; got != want {
		t.Errorf("CombinedID = %q, want %q", got, want)
	}
}

func TestCombinedIDCountsRunes(t *testing.T) {
	content := strings.Repeat("é", 60)
	got := CombinedID(content, time.Time{})
	if prefix := strings.Split(got, "_")[0]; len([]rune(prefix)) != 50 {
		t.Errorf("prefix has %d runes, want 50", len([]rune(prefix)))
	}
}

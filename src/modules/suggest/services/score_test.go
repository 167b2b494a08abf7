package suggest

import (
	"fmt"
	"testing"
)

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"avng", "Avengers: Endgame", 75},
		{"avng", "The Avenger", 75},
		{"avng", "Average Joe", 50},
		{"heat", "Heat", 100},
		{"HEAT", "the heat is on", 100},
		{"", "Heat", 0},
		{"", "", 100},
		{"xyz", "abc", 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s|%s", tt.a, tt.b), func(t *testing.T) {
			if got := PartialRatio(tt.a, tt.b); got != tt.want {
				t.Errorf("PartialRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestPartialRatioIsSymmetric(t *testing.T) {
	if PartialRatio("Interstellar", "stellar") != PartialRatio("stellar", "Interstellar") {
		t.Error("argument order changed the score")
	}
}

func TestRankOrdersAvengerTitlesFirst(t *testing.T) {
	got := Rank("avng", []string{"Avengers: Endgame", "Average Joe", "The Avenger"}, 30, 5)
	if len(got) != 3 {
		t.Fatalf("got %d suggestions, want 3: %+v", len(got), got)
	}
	if got[0].Title != "Avengers: Endgame" || got[1].Title != "The Avenger" || got[2].Title != "Average Joe" {
		t.Errorf("order = %+v", got)
	}
}

func TestRankLimitCutoffAndDistinct(t *testing.T) {
	titles := []string{
		"Alien", "Aliens", "Alien 3", "Alien: Resurrection", "Alien: Covenant",
		"Alien Nation", "Aliens", "Zodiac", "",
	}
	got := Rank("alien", titles, 30, 5)
	if len(got) != 5 {
		t.Fatalf("got %d suggestions, want 5", len(got))
	}
	seen := map[string]bool{}
	for _, s := range got {
		if s.Score < 30 {
			t.Errorf("%q scored %d below cutoff", s.Title, s.Score)
		}
		if seen[s.Title] {
			t.Errorf("duplicate %q", s.Title)
		}
		seen[s.Title] = true
	}
	if seen["Zodiac"] {
		t.Error("Zodiac should fall under the cutoff")
	}
	// all candidates tie at 100, so remote order is kept
	if got[0].Title != "Alien" || got[4].Title != "Alien: Covenant" {
		t.Errorf("tie order not stable: %+v", got)
	}
}

func TestRankHighCutoffDropsEverything(t *testing.T) {
	if got := Rank("avng", []string{"Average Joe"}, 90, 5); len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}
}

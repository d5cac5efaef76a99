package domain

import "testing"

func TestNormalizePhrase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "নির্বাচন কমিশন", "নির্বাচন কমিশন"},
		{"surrounding whitespace", "  ঢাকা মেট্রো  ", "ঢাকা মেট্রো"},
		{"trailing danda", "সংসদ অধিবেশন।", "সংসদ অধিবেশন"},
		{"trailing period", "world cup.", "world cup"},
		{"repeated terminal punctuation", "কথা।।", "কথা"},
		{"punctuation then space", "কথা। ", "কথা"},
		{"inner danda preserved", "আগে। পরে", "আগে। পরে"},
		{"double spaces compressed", "বাংলা  ভাষা", "বাংলা ভাষা"},
		{"case preserved", "Bangla Trend", "Bangla Trend"},
		{"only punctuation", "।", ""},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizePhrase(tt.in); got != tt.want {
				t.Errorf("NormalizePhrase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

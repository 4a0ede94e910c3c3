package models

import "testing"

func TestLanguageToggle(t *testing.T) {
	tests := []struct {
		lang Language
		want Language
	}{
		{Arabic, English},
		{English, Arabic},
		{"", English},
	}
	for _, tt := range tests {
		if got := tt.lang.Toggle(); got != tt.want {
			t.Errorf("%q.Toggle() = %v, want %v", tt.lang, got, tt.want)
		}
	}
	if !Arabic.RTL() || English.RTL() {
		t.Error("only Arabic is right to left")
	}
	if Language("fr").Valid() {
		t.Error("fr should not be valid")
	}
}

func TestProgressUnlockedLevel(t *testing.T) {
	p := Progress{UnlockedLevels: map[string]int{"math": 4, "simon": 0}}
	tests := []struct {
		game string
		want int
	}{
		{"math", 4},
		{"simon", 1},
		{"memory", 1},
	}
	for _, tt := range tests {
		if got := p.UnlockedLevel(tt.game); got != tt.want {
			t.Errorf("UnlockedLevel(%q) = %v, want %v", tt.game, got, tt.want)
		}
	}
}

func TestProgressClone(t *testing.T) {
	p := Progress{UnlockedLevels: map[string]int{"math": 2}, Language: English}
	c := p.Clone()
	c.UnlockedLevels["math"] = 9
	if p.UnlockedLevels["math"] != 2 {
		t.Error("Clone() shares the levels map")
	}
}

func TestTextIn(t *testing.T) {
	tests := []struct {
		name string
		text Text
		lang Language
		want string
	}{
		{"english", Text{AR: "أسد", EN: "Lion"}, English, "Lion"},
		{"arabic", Text{AR: "أسد", EN: "Lion"}, Arabic, "أسد"},
		{"missing english", Text{AR: "أسد"}, English, "أسد"},
		{"missing arabic", Text{EN: "Lion"}, Arabic, "Lion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.text.In(tt.lang); got != tt.want {
				t.Errorf("In(%v) = %v, want %v", tt.lang, got, tt.want)
			}
		})
	}
}

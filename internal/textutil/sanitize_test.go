package textutil

import "testing"

func TestSanitizePathComponent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Animal Crossing", "Animal Crossing"},
		{"colon and slash", "Zelda: A Link/Between", "Zelda- A Link-Between"},
		{"removed characters", `What? "Quoted" <x>|`, "What Quoted x"},
		{"trailing dots", "Mario Kart 7...", "Mario Kart 7"},
		{"control characters", "Line\nBreak\x00", "LineBreak"},
		{"dots only", "..", ""},
		{"whitespace only", "   ", ""},
		{"unicode kept", "ポケモン X", "ポケモン X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePathComponent(tt.input); got != tt.want {
				t.Errorf("SanitizePathComponent(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation", "Hello, World! 2026", "hello-world-2026"},
		{"extra spaces", "  spaced   out  ", "spaced-out"},
		{"consecutive hyphens", "a -- b", "a-b"},
		{"leading trailing hyphens", "-edge case-", "edge-case"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
		{"turkish letters", "Yapay Zekâ Çağında Öğrenme", "yapay-zeka-caginda-ogrenme"},
		{"dotless i", "Işık Hızı", "isik-hizi"},
		{"mixed", "Büyük Veri & Machine Learning", "buyuk-veri-machine-learning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

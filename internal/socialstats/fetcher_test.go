package socialstats

import "testing"

func TestParseCompactCount(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"1.2K", 1200},
		{"1.5M", 1500000},
		{"123", 123},
		{"12,345", 12345},
		{"1 234", 1234},
		{"5.6K views", 5600},
		{"42k", 42000},
		{"3.14k", 3140},
		{"0", 0},
		{"", 0},
		{"no number", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseCompactCount(tt.input); got != tt.expected {
				t.Errorf("parseCompactCount(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAverageViews(t *testing.T) {
	v := func(n int) *int { return &n }

	posts := []PostStat{
		{Views: v(100)},
		{Views: nil},
		{Views: v(300)},
	}
	avg, ok := averageViews(posts, 20)
	if !ok || avg != 200 {
		t.Errorf("averageViews() = %d, %v; want 200, true", avg, ok)
	}

	if _, ok := averageViews([]PostStat{{Views: nil}}, 20); ok {
		t.Error("averageViews() with no counters should report not ok")
	}

	many := []PostStat{{Views: v(10)}, {Views: v(20)}, {Views: v(999)}}
	avg, ok = averageViews(many, 2)
	if !ok || avg != 15 {
		t.Errorf("averageViews() with limit 2 = %d, %v; want 15, true", avg, ok)
	}
}

func TestGuessLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Привет мир, это тестовый текст на русском языке", "ru"},
		{"Hello world, this is a test text in English", "en"},
		{"مرحبا بالعالم", "ar"},
		{"", "unknown"},
		{"12345 !!!", "unknown"},
		{"Привет hello мир world тест test текст text", "ru"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := guessLanguage(tt.input); got != tt.expected {
				t.Errorf("guessLanguage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

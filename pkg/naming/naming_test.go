package naming

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestForReel(t *testing.T) {
	tests := []struct {
		name      string
		caption   string
		shortcode string
		expected  string
	}{
		{
			name:      "first line of caption becomes the name",
			caption:   "Sunset\nmore text",
			shortcode: "ABC123",
			expected:  "Sunset.mp4",
		},
		{
			name:      "empty caption falls back to shortcode",
			caption:   "",
			shortcode: "ABC123",
			expected:  "ABC123.mp4",
		},
		{
			name:      "hashtag words are dropped",
			caption:   "Morning run #fitness #nature",
			shortcode: "ABC123",
			expected:  "Morning run.mp4",
		},
		{
			name:      "hashtag-only caption falls back to shortcode",
			caption:   "#sunset #beach",
			shortcode: "DEF456",
			expected:  "DEF456.mp4",
		},
		{
			name:      "unsafe characters are replaced",
			caption:   `What: a "great" day/night?`,
			shortcode: "ABC123",
			expected:  "What_ a _great_ day_night_.mp4",
		},
		{
			name:      "whitespace-only caption falls back to shortcode",
			caption:   "   \n more",
			shortcode: "GHI789",
			expected:  "GHI789.mp4",
		},
		{
			name:      "single line caption",
			caption:   "Hello world",
			shortcode: "ABC123",
			expected:  "Hello world.mp4",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := ForReel(test.caption, test.shortcode)
			if got != test.expected {
				t.Errorf("ForReel(%q, %q) = %q, want %q", test.caption, test.shortcode, got, test.expected)
			}
		})
	}
}

func TestForReelDeterministic(t *testing.T) {
	first := ForReel("Sunset\nmore", "ABC123")
	second := ForReel("Sunset\nmore", "ABC123")
	if first != second {
		t.Errorf("expected deterministic names, got %q and %q", first, second)
	}
}

func TestTitleFromCaptionTruncation(t *testing.T) {
	long := strings.Repeat("a", 500)
	title := TitleFromCaption(long)
	if utf8.RuneCountInString(title) != MaxTitleLength {
		t.Errorf("expected title of %d runes, got %d", MaxTitleLength, utf8.RuneCountInString(title))
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"removes all invalid characters", `a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"replaces control characters", "a\tb\x00c", "a_b_c"},
		{"trims surrounding whitespace", "  hello  ", "hello"},
		{"empty input", "", ""},
		{"multibyte runes survive", "café ☀️", "café ☀️"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Sanitize(test.input)
			if got != test.expected {
				t.Errorf("Sanitize(%q) = %q, want %q", test.input, got, test.expected)
			}
		})
	}
}

func TestSanitizeNeverExceedsMaxStem(t *testing.T) {
	inputs := []string{
		strings.Repeat("x", 1000),
		strings.Repeat("日", 1000),
		strings.Repeat("a ", 300),
	}

	for _, input := range inputs {
		got := Sanitize(input)
		if utf8.RuneCountInString(got) > MaxStemLength {
			t.Errorf("Sanitize produced %d runes, max is %d", utf8.RuneCountInString(got), MaxStemLength)
		}
	}
}

func TestSanitizeOutputContainsNoUnsafeCharacters(t *testing.T) {
	got := Sanitize(`weird <name> with : every / bad \ char | ? *`)
	if strings.ContainsAny(got, invalidChars) {
		t.Errorf("sanitized name still contains unsafe characters: %q", got)
	}
}

func TestTruncateRunesMultibyte(t *testing.T) {
	// Truncation must not split a multi-byte rune
	s := strings.Repeat("é", 10)
	got := truncateRunes(s, 5)
	if !utf8.ValidString(got) {
		t.Errorf("truncateRunes produced invalid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 5 {
		t.Errorf("expected 5 runes, got %d", utf8.RuneCountInString(got))
	}
}

// Package naming derives filesystem-safe output filenames from reel captions.
package naming

import (
	"strings"
	"unicode"
)

const (
	// MaxTitleLength bounds the caption-derived title before sanitization
	MaxTitleLength = 100

	// MaxStemLength bounds the sanitized filename stem to avoid
	// filesystem path-length errors
	MaxStemLength = 200

	// VideoExt is the extension for all downloaded reels
	VideoExt = ".mp4"
)

// invalidChars are characters not safe for filesystem names
const invalidChars = `<>:"/\|?*`

// ForReel derives the output filename for a reel. The first line of the
// caption becomes the title, with hashtag words dropped; an empty or
// absent caption falls back to the post shortcode. The result always
// carries the .mp4 extension.
func ForReel(caption, shortcode string) string {
	stem := TitleFromCaption(caption)
	stem = Sanitize(stem)
	if stem == "" {
		stem = Sanitize(shortcode)
	}
	return stem + VideoExt
}

// TitleFromCaption extracts a display title from a caption: the first
// line, with words starting with '#' removed, truncated to
// MaxTitleLength runes. Returns "" for captions with no usable text.
func TitleFromCaption(caption string) string {
	if caption == "" {
		return ""
	}

	line, _, _ := strings.Cut(caption, "\n")

	words := strings.Fields(line)
	kept := words[:0]
	for _, w := range words {
		if strings.HasPrefix(w, "#") {
			continue
		}
		kept = append(kept, w)
	}
	title := strings.Join(kept, " ")

	return truncateRunes(title, MaxTitleLength)
}

// Sanitize replaces characters invalid in filesystem names with
// underscores, strips control characters, trims surrounding
// whitespace, and truncates to MaxStemLength runes.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		switch {
		case strings.ContainsRune(invalidChars, r):
			b.WriteRune('_')
		case unicode.IsControl(r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.TrimSpace(b.String())
	cleaned = truncateRunes(cleaned, MaxStemLength)

	// Truncation can expose trailing whitespace
	return strings.TrimSpace(cleaned)
}

// truncateRunes cuts s to at most n runes without splitting a multi-byte
// character
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

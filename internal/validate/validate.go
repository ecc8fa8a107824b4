// Package validate extracts and validates YouTube video identifiers.
package validate

import "regexp"

// Video IDs are always exactly 11 characters of this alphabet. The trailing
// group makes the length check exact rather than a prefix match: a 12-char
// token after "watch?v=" must not yield its first 11 characters.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`youtube\.com/watch\?v=([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`),
	regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`),
	regexp.MustCompile(`youtube\.com/v/([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`),
	regexp.MustCompile(`youtube\.com/shorts/([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`),
}

var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL.
// Patterns are tried in a fixed priority order; the first match wins.
// A bare string that is already a valid ID is accepted as-is.
func ExtractVideoID(input string) (string, bool) {
	for _, re := range urlPatterns {
		if m := re.FindStringSubmatch(input); m != nil {
			return m[1], true
		}
	}
	if IsValidVideoID(input) {
		return input, true
	}
	return "", false
}

// IsValidVideoID reports whether s is exactly an 11-character video ID.
// Used to reject malformed path parameters before any network call.
func IsValidVideoID(s string) bool {
	return videoIDRe.MatchString(s)
}

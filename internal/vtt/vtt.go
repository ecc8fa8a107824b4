// Package vtt parses WebVTT caption markup.
//
// Two projections are offered: PlainText flattens a whole file into one
// cleaned string, Parse keeps cue timing so callers can build timed segments.
package vtt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Cue is one timed caption block.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

var (
	tagRe        = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	digitsRe     = regexp.MustCompile(`^[0-9]+$`)
)

// headerPrefixes are metadata lines that carry no caption text.
var headerPrefixes = []string{"WEBVTT", "Kind:", "Language:", "NOTE"}

// PlainText extracts the spoken text from raw VTT markup.
//
// Lines are dropped when empty, when they are headers or metadata, when they
// contain a cue time range ("-->"), or when they are bare cue indexes. Inline
// tags are stripped per line before joining; whitespace is collapsed once
// after joining.
func PlainText(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isHeaderLine(line) {
			continue
		}
		if strings.Contains(line, "-->") {
			continue
		}
		if digitsRe.MatchString(line) {
			continue
		}
		line = tagRe.ReplaceAllString(line, "")
		if line != "" {
			parts = append(parts, line)
		}
	}
	joined := strings.Join(parts, " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(joined, " "))
}

func isHeaderLine(line string) bool {
	for _, p := range headerPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// Parse parses VTT content into timed cues. Inline tags are stripped from
// cue text; multi-line cue text is joined with single spaces.
func Parse(content string) ([]Cue, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.Trim(content, "\"")

	// Some callers hand us JSON-escaped payloads.
	if strings.Contains(content, "\\n") {
		content = strings.ReplaceAll(content, "\\n", "\n")
	}

	if !strings.HasPrefix(content, "WEBVTT") {
		return nil, fmt.Errorf("invalid VTT format: missing WEBVTT header")
	}

	var cues []Cue
	for _, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(block, "\n")

		// Find the cue timing line; headers, cue indexes, and settings may
		// precede it within a block.
		timingIdx := -1
		for i, line := range lines {
			if strings.Contains(line, "-->") {
				timingIdx = i
				break
			}
		}
		if timingIdx < 0 || timingIdx == len(lines)-1 {
			continue
		}

		timingLine := lines[timingIdx]
		// Cue settings (align:start position:0%) follow the range on the same line.
		if i := strings.Index(timingLine, "-->"); i >= 0 {
			start, err := parseTimestamp(strings.TrimSpace(timingLine[:i]))
			if err != nil {
				return nil, fmt.Errorf("invalid start timestamp: %w", err)
			}
			rest := strings.TrimSpace(timingLine[i+len("-->"):])
			endField := strings.Fields(rest)
			if len(endField) == 0 {
				return nil, fmt.Errorf("invalid cue timing line: %q", timingLine)
			}
			end, err := parseTimestamp(endField[0])
			if err != nil {
				return nil, fmt.Errorf("invalid end timestamp: %w", err)
			}

			text := strings.Join(lines[timingIdx+1:], " ")
			text = strings.TrimSpace(tagRe.ReplaceAllString(text, ""))
			if text == "" {
				continue
			}
			cues = append(cues, Cue{Start: start, End: end, Text: text})
		}
	}

	return cues, nil
}

// parseTimestamp parses an HH:MM:SS.mmm cue timestamp.
func parseTimestamp(timestamp string) (time.Duration, error) {
	if !strings.Contains(timestamp, ".") {
		return 0, fmt.Errorf("invalid timestamp format: missing milliseconds")
	}

	parts := strings.Split(timestamp, ":")
	if len(parts) != 3 || len(parts[0]) != 2 {
		return 0, fmt.Errorf("invalid timestamp format: expected HH:MM:SS.mmm")
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours: %w", err)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minutes: %w", err)
	}

	secondParts := strings.Split(parts[2], ".")
	if len(secondParts) != 2 {
		return 0, fmt.Errorf("invalid seconds format: missing milliseconds")
	}

	seconds, err := strconv.Atoi(secondParts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds: %w", err)
	}

	milliseconds, err := strconv.Atoi(secondParts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds: %w", err)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(milliseconds)*time.Millisecond, nil
}

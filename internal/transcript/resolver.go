package transcript

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"ytsummary.app/backend/internal/apperr"
)

// englishCodes is the language preference used by the English tiers.
var englishCodes = []string{"en", "en-US", "en-GB"}

var (
	// bracketRe matches bracketed non-speech annotations like [Music].
	bracketRe = regexp.MustCompile(`\[.*?\]`)
	spacesRe  = regexp.MustCompile(`\s+`)
)

// Resolver picks the best caption track for a video and normalizes it into
// a clean transcript. Track selection runs three tiers in strict priority
// order: manually created English, auto-generated English, then the first
// track the source enumerates (translated to English when possible).
type Resolver struct {
	source CaptionSource
	log    *slog.Logger
}

func NewResolver(source CaptionSource, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{source: source, log: log}
}

// Resolve fetches and normalizes the transcript for videoID. When
// includeTimestamps is true the result carries timed segments, otherwise a
// single cleaned text string.
func (r *Resolver) Resolve(ctx context.Context, videoID string, includeTimestamps bool) (*Transcript, error) {
	tracks, err := r.source.List(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, noTranscript(videoID)
	}

	track, language := r.selectTrack(ctx, tracks)
	r.log.Info("caption track selected",
		"video_id", videoID,
		"language", language,
		"generated", track.IsGenerated)

	entries, err := r.source.Fetch(ctx, track)
	if err != nil {
		return nil, err
	}

	result := &Transcript{
		VideoID:     videoID,
		Language:    language,
		IsGenerated: track.IsGenerated,
	}
	if includeTimestamps {
		result.Segments = toSegments(entries)
		if len(result.Segments) == 0 {
			return nil, noTranscript(videoID)
		}
	} else {
		result.Text = toPlainText(entries)
		if result.Text == "" {
			return nil, noTranscript(videoID)
		}
	}
	return result, nil
}

// noTranscript covers both "no tracks at all" and "nothing left after
// cleaning": a transcript that is empty once annotations are stripped is
// treated as absent, not served as an empty success.
func noTranscript(videoID string) *apperr.Error {
	return &apperr.Error{
		Kind:    apperr.NotFound,
		Message: "No transcript found for this video",
		Hint:    "The video may not have captions available",
		VideoID: videoID,
	}
}

// selectTrack applies the tier policy and returns the chosen track together
// with the effective language code.
func (r *Resolver) selectTrack(ctx context.Context, tracks []CaptionTrack) (CaptionTrack, string) {
	// Tier 1: manually created English captions.
	if t, ok := findTrack(tracks, englishCodes, false); ok {
		return t, t.LanguageCode
	}

	// Tier 2: auto-generated English captions.
	if t, ok := findTrack(tracks, englishCodes, true); ok {
		return t, t.LanguageCode
	}

	// Tier 3: first enumerated track of any language. Only this one track is
	// ever considered; a failed translation keeps the original language
	// rather than moving on to another candidate.
	chosen := tracks[0]
	language := chosen.LanguageCode
	if !strings.HasPrefix(language, "en") && chosen.IsTranslatable {
		translated, err := r.source.Translate(ctx, chosen, "en")
		if err != nil {
			r.log.Warn("translation failed, using original language",
				"video_id", chosen.VideoID,
				"language", language,
				"error", err)
		} else {
			chosen = translated
			language = "en"
		}
	}
	return chosen, language
}

// findTrack mirrors the lookup order of the caption source: languages are
// tried in preference order, and within a language the first enumerated
// track with matching provenance wins.
func findTrack(tracks []CaptionTrack, langs []string, generated bool) (CaptionTrack, bool) {
	for _, lang := range langs {
		for _, t := range tracks {
			if t.LanguageCode == lang && t.IsGenerated == generated {
				return t, true
			}
		}
	}
	return CaptionTrack{}, false
}

// toPlainText flattens entries into one cleaned string. The order matters:
// entries are joined and whitespace collapsed first, and bracketed
// annotations are stripped from the joined string, so annotations split
// across entry boundaries are still removed.
func toPlainText(entries []CaptionEntry) string {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	joined := strings.Join(texts, " ")
	joined = strings.TrimSpace(spacesRe.ReplaceAllString(joined, " "))
	return bracketRe.ReplaceAllString(joined, "")
}

// toSegments cleans each entry independently and drops entries whose text is
// empty after cleaning. Timing values pass through unmodified.
func toSegments(entries []CaptionEntry) []Segment {
	segments := make([]Segment, 0, len(entries))
	for _, e := range entries {
		text := strings.TrimSpace(bracketRe.ReplaceAllString(e.Text, ""))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{Text: text, Start: e.Start, Duration: e.Duration})
	}
	return segments
}

// WordCount counts whitespace-separated tokens in a cleaned transcript.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ListTracks enumerates the caption tracks available for a video, for the
// debug endpoint.
func (r *Resolver) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	return r.source.List(ctx, videoID)
}

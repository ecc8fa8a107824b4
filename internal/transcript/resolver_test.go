package transcript

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ytsummary.app/backend/internal/apperr"
)

// fakeSource is a scriptable CaptionSource for resolver tests.
type fakeSource struct {
	tracks       []CaptionTrack
	listErr      error
	entries      map[string][]CaptionEntry // keyed by track ID
	fetchErr     error
	translateErr error
	translated   []string // track IDs translation was attempted for
	fetched      []string // track IDs fetched
}

func (f *fakeSource) List(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tracks, nil
}

func (f *fakeSource) Fetch(ctx context.Context, track CaptionTrack) ([]CaptionEntry, error) {
	f.fetched = append(f.fetched, track.ID)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.entries[track.ID], nil
}

func (f *fakeSource) Translate(ctx context.Context, track CaptionTrack, targetLang string) (CaptionTrack, error) {
	f.translated = append(f.translated, track.ID)
	if f.translateErr != nil {
		return CaptionTrack{}, f.translateErr
	}
	out := track
	out.ID = track.ID + ":" + targetLang
	out.LanguageCode = targetLang
	return out, nil
}

func track(id, lang string, generated, translatable bool) CaptionTrack {
	return CaptionTrack{VideoID: "video123456", ID: id, LanguageCode: lang, IsGenerated: generated, IsTranslatable: translatable}
}

func entries(texts ...string) []CaptionEntry {
	out := make([]CaptionEntry, len(texts))
	for i, tx := range texts {
		out[i] = CaptionEntry{Text: tx, Start: float64(i), Duration: 1}
	}
	return out
}

func TestResolveManualEnglishWinsOverGenerated(t *testing.T) {
	src := &fakeSource{
		// Enumeration order deliberately puts generated tracks first.
		tracks: []CaptionTrack{
			track("gen-en", "en", true, true),
			track("man-fr", "fr", false, true),
			track("man-en", "en", false, false),
		},
		entries: map[string][]CaptionEntry{"man-en": entries("hello", "world")},
	}
	r := NewResolver(src, nil)

	got, err := r.Resolve(context.Background(), "video123456", false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Language != "en" || got.IsGenerated {
		t.Errorf("got language=%q generated=%v, want en/false", got.Language, got.IsGenerated)
	}
	if got.Text != "hello world" {
		t.Errorf("Text = %q, want %q", got.Text, "hello world")
	}
	if len(src.fetched) != 1 || src.fetched[0] != "man-en" {
		t.Errorf("fetched %v, want [man-en]", src.fetched)
	}
	if len(src.translated) != 0 {
		t.Errorf("translation attempted: %v", src.translated)
	}
}

func TestResolveLanguagePreferenceOrder(t *testing.T) {
	// en-US manual should lose to plain en manual even when listed first.
	src := &fakeSource{
		tracks: []CaptionTrack{
			track("man-enus", "en-US", false, false),
			track("man-en", "en", false, false),
		},
		entries: map[string][]CaptionEntry{"man-en": entries("text")},
	}
	r := NewResolver(src, nil)

	got, err := r.Resolve(context.Background(), "video123456", false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Language != "en" {
		t.Errorf("Language = %q, want en", got.Language)
	}
}

func TestResolveGeneratedEnglishTier(t *testing.T) {
	src := &fakeSource{
		tracks: []CaptionTrack{
			track("man-de", "de", false, true),
			track("gen-engb", "en-GB", true, true),
		},
		entries: map[string][]CaptionEntry{"gen-engb": entries("generated words")},
	}
	r := NewResolver(src, nil)

	got, err := r.Resolve(context.Background(), "video123456", false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Language != "en-GB" || !got.IsGenerated {
		t.Errorf("got language=%q generated=%v, want en-GB/true", got.Language, got.IsGenerated)
	}
	if len(src.translated) != 0 {
		t.Errorf("translation attempted: %v", src.translated)
	}
}

func TestResolveSoleGeneratedEnUSTrack(t *testing.T) {
	// A lone en-US generated translatable track: already English, so no
	// translation is ever attempted and the locale variant is kept.
	src := &fakeSource{
		tracks:  []CaptionTrack{track("gen-enus", "en-US", true, true)},
		entries: map[string][]CaptionEntry{"gen-enus": entries("some words")},
	}
	r := NewResolver(src, nil)

	got, err := r.Resolve(context.Background(), "video123456", false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(src.translated) != 0 {
		t.Errorf("translation attempted for English track: %v", src.translated)
	}
	if got.Language != "en-US" || !got.IsGenerated {
		t.Errorf("got language=%q generated=%v, want en-US/true", got.Language, got.IsGenerated)
	}
}

func TestResolveEnglishVariantOutsidePreferenceSet(t *testing.T) {
	// en-AU misses both English tiers; the fallback tier keeps it without
	// attempting translation because the code still starts with "en".
	src := &fakeSource{
		tracks:  []CaptionTrack{track("gen-enau", "en-AU", true, true)},
		entries: map[string][]CaptionEntry{"gen-enau": entries("tier three")},
	}
	r := NewResolver(src, nil)

	got, err := r.Resolve(context.Background(), "video123456", false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(src.translated) != 0 {
		t.Errorf("translation attempted for English variant: %v", src.translated)
	}
	if got.Language != "en-AU" || !got.IsGenerated {
		t.Errorf("got language=%q generated=%v, want en-AU/true", got.Language, got.IsGenerated)
	}
}

func TestResolveTranslationSuccess(t *testing.T) {
	src := &fakeSource{
		tracks:  []CaptionTrack{track("gen-fr", "fr", true, true)},
		entries: map[string][]CaptionEntry{"gen-fr:en": entries("translated text")},
	}
	r := NewResolver(src, nil)

	got, err := r.Resolve(context.Background(), "video123456", false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Language != "en" {
		t.Errorf("Language = %q, want en", got.Language)
	}
	if !got.IsGenerated {
		t.Error("IsGenerated lost through translation")
	}
	if got.Text != "translated text" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestResolveTranslationFailureKeepsOriginal(t *testing.T) {
	src := &fakeSource{
		tracks:       []CaptionTrack{track("gen-fr", "fr", true, true)},
		entries:      map[string][]CaptionEntry{"gen-fr": entries("texte original")},
		translateErr: errors.New("translation unavailable"),
	}
	r := NewResolver(src, nil)

	got, err := r.Resolve(context.Background(), "video123456", false)
	if err != nil {
		t.Fatalf("Resolve() error = %v, want graceful fallback", err)
	}
	if got.Language != "fr" || !got.IsGenerated {
		t.Errorf("got language=%q generated=%v, want fr/true", got.Language, got.IsGenerated)
	}
	if got.Text != "texte original" {
		t.Errorf("Text = %q", got.Text)
	}
	// Only the first enumerated track is ever considered in tier 3.
	if len(src.fetched) != 1 || src.fetched[0] != "gen-fr" {
		t.Errorf("fetched %v, want [gen-fr]", src.fetched)
	}
}

func TestResolveNonTranslatableKeptAsIs(t *testing.T) {
	src := &fakeSource{
		tracks:  []CaptionTrack{track("man-ja", "ja", false, false)},
		entries: map[string][]CaptionEntry{"man-ja": entries("日本語")},
	}
	r := NewResolver(src, nil)

	got, err := r.Resolve(context.Background(), "video123456", false)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Language != "ja" {
		t.Errorf("Language = %q, want ja", got.Language)
	}
	if len(src.translated) != 0 {
		t.Errorf("translation attempted for non-translatable track: %v", src.translated)
	}
}

func TestResolveNoTracks(t *testing.T) {
	src := &fakeSource{}
	r := NewResolver(src, nil)

	_, err := r.Resolve(context.Background(), "video123456", false)
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.NotFound {
		t.Fatalf("Resolve() error = %v, want NotFound", err)
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.VideoID != "video123456" {
		t.Errorf("VideoID = %q, want video123456", appErr.VideoID)
	}
}

func TestResolveEmptyAfterCleaningIsNotFound(t *testing.T) {
	// Annotation-only captions clean down to nothing; that is served as a
	// missing transcript, not an empty success.
	src := &fakeSource{
		tracks:  []CaptionTrack{track("man-en", "en", false, false)},
		entries: map[string][]CaptionEntry{"man-en": entries("[Music]")},
	}
	r := NewResolver(src, nil)

	for _, includeTimestamps := range []bool{false, true} {
		_, err := r.Resolve(context.Background(), "video123456", includeTimestamps)
		if kind, ok := apperr.KindOf(err); !ok || kind != apperr.NotFound {
			t.Fatalf("Resolve(timestamps=%v) error = %v, want NotFound", includeTimestamps, err)
		}
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.VideoID != "video123456" {
			t.Errorf("VideoID = %q, want video123456", appErr.VideoID)
		}
	}
}

func TestResolveListErrorsPropagate(t *testing.T) {
	listErr := apperr.New(apperr.CaptionsDisabled, "Transcripts are disabled for this video")
	src := &fakeSource{listErr: listErr}
	r := NewResolver(src, nil)

	_, err := r.Resolve(context.Background(), "video123456", false)
	if kind, ok := apperr.KindOf(err); !ok || kind != apperr.CaptionsDisabled {
		t.Fatalf("Resolve() error = %v, want CaptionsDisabled", err)
	}
}

func TestPlainTextNormalization(t *testing.T) {
	tests := []struct {
		name    string
		entries []CaptionEntry
		want    string
	}{
		{
			name:    "joins with single spaces and collapses runs",
			entries: entries("hello  there", "big\n gap"),
			want:    "hello there big gap",
		},
		{
			name:    "strips bracketed annotations after joining",
			entries: entries("[Music]", "real words", "[Applause]"),
			// Annotation removal happens after whitespace collapsing, so the
			// joining spaces around stripped annotations remain.
			want:    " real words ",
		},
		{
			name:    "annotation split across entries",
			entries: entries("[Mu", "sic] words"),
			want:    " words",
		},
		{
			name:    "empty entries",
			entries: entries("", "", ""),
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toPlainText(tt.entries); got != tt.want {
				t.Errorf("toPlainText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSegmentNormalization(t *testing.T) {
	in := []CaptionEntry{
		{Text: "[Music]", Start: 0, Duration: 2.5},
		{Text: "  hello [Applause] there ", Start: 2.5, Duration: 3},
		{Text: "world", Start: 5.5, Duration: 1.25},
	}
	got := toSegments(in)
	if len(got) != 2 {
		t.Fatalf("toSegments() kept %d segments, want 2", len(got))
	}
	// Per-entry cleaning strips the annotation and trims; interior
	// whitespace is left alone.
	if got[0].Text != "hello  there" {
		t.Errorf("segment text = %q, want %q", got[0].Text, "hello  there")
	}
	if got[0].Start != 2.5 || got[0].Duration != 3 {
		t.Errorf("timing = (%v, %v), want (2.5, 3)", got[0].Start, got[0].Duration)
	}
	if got[1].Text != "world" || got[1].Start != 5.5 || got[1].Duration != 1.25 {
		t.Errorf("second segment = %+v", got[1])
	}
}

func TestAnnotationStrippingIdempotent(t *testing.T) {
	in := "before [Music] middle [App[lause] after"
	once := bracketRe.ReplaceAllString(in, "")
	twice := bracketRe.ReplaceAllString(once, "")
	if once != twice {
		t.Errorf("stripping not idempotent: %q vs %q", once, twice)
	}
}

func TestPlainAndSegmentShapesAgree(t *testing.T) {
	in := entries("the quick", "brown  fox", "jumps", "over the lazy dog")
	plain := toPlainText(in)
	segs := toSegments(in)

	var parts []string
	for _, s := range segs {
		parts = append(parts, s.Text)
	}
	joined := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	if joined != plain {
		t.Errorf("segment concatenation %q != plain text %q", joined, plain)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two three", 3},
		{" leading and  double  spaces ", 4},
	}
	for _, tt := range tests {
		if got := WordCount(tt.text); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestListTracks(t *testing.T) {
	src := &fakeSource{tracks: []CaptionTrack{track("a", "en", false, true), track("b", "fr", true, true)}}
	r := NewResolver(src, nil)
	got, err := r.ListTracks(context.Background(), "video123456")
	if err != nil {
		t.Fatalf("ListTracks() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListTracks() returned %d tracks, want 2", len(got))
	}
}

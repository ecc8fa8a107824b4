// Package ytdlp implements transcript.CaptionSource on top of the yt-dlp
// binary. Track listing parses the -J metadata dump; fetching writes the VTT
// subtitle file into a scoped temp directory and parses it. Useful where the
// InnerTube endpoints are blocked and a local yt-dlp install is available.
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"ytsummary.app/backend/internal/apperr"
	"ytsummary.app/backend/internal/transcript"
	"ytsummary.app/backend/internal/vtt"
)

// origSuffix marks the untranslated auto-caption language key in yt-dlp
// metadata ("en-orig"); the other automatic_captions keys are translations.
const origSuffix = "-orig"

type Client struct {
	binPath string
}

func New(binPath string) *Client {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Client{binPath: binPath}
}

type subtitleItem struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

type metadataDump struct {
	ID                string                    `json:"id"`
	Subtitles         map[string][]subtitleItem `json:"subtitles"`
	AutomaticCaptions map[string][]subtitleItem `json:"automatic_captions"`
}

// List runs `yt-dlp -J --skip-download` and maps the subtitle tables onto
// caption tracks. Manual subtitles come from "subtitles"; for generated ones
// only the original-language ("-orig") automatic captions count as tracks,
// the remaining keys being translation targets rather than sources.
func (c *Client) List(ctx context.Context, videoID string) ([]transcript.CaptionTrack, error) {
	out, err := c.run(ctx, "-J", "--skip-download", watchURL(videoID))
	if err != nil {
		return nil, classifyExecError(err, videoID)
	}

	var dump metadataDump
	if err := json.Unmarshal(extractJSONLine(out), &dump); err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, err, "parse yt-dlp metadata")
	}
	return tracksFromDump(videoID, dump), nil
}

// tracksFromDump maps the yt-dlp subtitle tables onto caption tracks.
func tracksFromDump(videoID string, dump metadataDump) []transcript.CaptionTrack {
	// Go map order is random; sort keys so "first enumerated track" is
	// stable across calls.
	var tracks []transcript.CaptionTrack
	for _, lang := range sortedKeys(dump.Subtitles) {
		items := dump.Subtitles[lang]
		if !hasVTT(items) {
			continue
		}
		tracks = append(tracks, transcript.CaptionTrack{
			VideoID:      videoID,
			ID:           lang,
			LanguageCode: lang,
			Language:     displayName(items),
			IsGenerated:  false,
		})
	}
	for _, lang := range sortedKeys(dump.AutomaticCaptions) {
		items := dump.AutomaticCaptions[lang]
		if !strings.HasSuffix(lang, origSuffix) || !hasVTT(items) {
			continue
		}
		tracks = append(tracks, transcript.CaptionTrack{
			VideoID:        videoID,
			ID:             lang,
			LanguageCode:   strings.TrimSuffix(lang, origSuffix),
			Language:       displayName(items),
			IsGenerated:    true,
			IsTranslatable: true,
		})
	}
	return tracks
}

func sortedKeys(m map[string][]subtitleItem) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fetch asks yt-dlp to write the track's VTT file into a temp directory and
// parses it into caption entries. The directory is removed on every exit
// path, including context cancellation (CommandContext kills the process).
func (c *Client) Fetch(ctx context.Context, track transcript.CaptionTrack) ([]transcript.CaptionEntry, error) {
	dir, err := os.MkdirTemp("", "captions-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	subFlag := "--write-subs"
	if track.IsGenerated {
		subFlag = "--write-auto-subs"
	}
	_, err = c.run(ctx,
		"--skip-download",
		subFlag,
		"--sub-langs", track.ID,
		"--sub-format", "vtt",
		"-o", "%(id)s.%(ext)s",
		"-P", dir,
		watchURL(track.VideoID))
	if err != nil {
		return nil, classifyExecError(err, track.VideoID)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.vtt"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, &apperr.Error{
			Kind:    apperr.NotFound,
			Message: "No transcript found for this video",
			Hint:    "yt-dlp produced no subtitle file",
			VideoID: track.VideoID,
		}
	}

	raw, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("read subtitle file: %w", err)
	}

	cues, err := vtt.Parse(string(raw))
	if err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, err, "parse subtitle file")
	}

	entries := make([]transcript.CaptionEntry, 0, len(cues))
	for _, cue := range cues {
		entries = append(entries, transcript.CaptionEntry{
			Text:     cue.Text,
			Start:    cue.Start.Seconds(),
			Duration: (cue.End - cue.Start).Seconds(),
		})
	}
	return entries, nil
}

// Translate swaps the subtitle language key: yt-dlp exposes auto-caption
// translations as regular languages under automatic_captions.
func (c *Client) Translate(ctx context.Context, track transcript.CaptionTrack, targetLang string) (transcript.CaptionTrack, error) {
	if !track.IsTranslatable {
		return transcript.CaptionTrack{}, fmt.Errorf("track %s is not translatable", track.LanguageCode)
	}
	out := track
	out.ID = targetLang
	out.LanguageCode = targetLang
	return out, nil
}

func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		// The process is killed on deadline; surface the context error so
		// callers can tell a timeout from a real yt-dlp failure.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("yt-dlp: %w", ctx.Err())
		}
		return nil, fmt.Errorf("yt-dlp: %w: %s", err, firstLine(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}

// classifyExecError maps subprocess failures onto the error taxonomy by
// inspecting yt-dlp's stderr wording.
func classifyExecError(err error, videoID string) error {
	msg := err.Error()
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.Timeout, err, "yt-dlp timed out for %s", videoID)
	case strings.Contains(msg, "Video unavailable"), strings.Contains(msg, "Private video"):
		return &apperr.Error{
			Kind:    apperr.NotFound,
			Message: "Video is unavailable or does not exist",
			VideoID: videoID,
			Err:     err,
		}
	case strings.Contains(msg, "429"), strings.Contains(msg, "Too Many Requests"):
		return &apperr.Error{
			Kind:    apperr.RateLimited,
			Message: "Request blocked by YouTube",
			Hint:    "YouTube may be rate-limiting. Please try again later.",
			VideoID: videoID,
			Err:     err,
		}
	default:
		return apperr.Wrap(apperr.Unavailable, err, "yt-dlp failed for %s", videoID)
	}
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func hasVTT(items []subtitleItem) bool {
	for _, it := range items {
		if it.Ext == "vtt" {
			return true
		}
	}
	return false
}

func displayName(items []subtitleItem) string {
	for _, it := range items {
		if it.Name != "" {
			return it.Name
		}
	}
	return ""
}

// extractJSONLine picks the JSON object out of mixed yt-dlp output; warnings
// are printed as plain lines around it.
func extractJSONLine(out []byte) []byte {
	for _, line := range bytes.Split(out, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if bytes.HasPrefix(trimmed, []byte("{")) {
			return trimmed
		}
	}
	return out
}

var _ transcript.CaptionSource = (*Client)(nil)

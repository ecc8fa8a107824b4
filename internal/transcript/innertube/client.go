// Package innertube implements transcript.CaptionSource against YouTube's
// InnerTube API. Track listing goes through the ANDROID /player endpoint,
// entries come from the timedtext URL each track carries, and translation
// works by adding a tlang parameter to that URL.
package innertube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ytsummary.app/backend/internal/apperr"
	"ytsummary.app/backend/internal/transcript"
)

const (
	defaultPlayerURL = "https://www.youtube.com/youtubei/v1/player"
	androidVersion   = "20.10.38"
	androidUA        = "com.google.android.youtube/" + androidVersion + " (Linux; U; Android 11) gzip"

	// Multi-hour auto-caption tracks run well past a megabyte, so the
	// timedtext cap matches the player-body cap.
	maxPlayerBody    = 3 * 1024 * 1024
	maxTimedTextBody = 3 * 1024 * 1024
)

type Client struct {
	http      *http.Client
	playerURL string // overridable for tests
}

func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		playerURL: defaultPlayerURL,
	}
}

// List enumerates caption tracks via the /player endpoint. The ANDROID
// client context avoids the PoToken requirement the WEB client has.
func (c *Client) List(ctx context.Context, videoID string) ([]transcript.CaptionTrack, error) {
	body, err := json.Marshal(playerRequest{
		VideoID: videoID,
		Context: clientContext{
			Client: clientInfo{
				ClientName:        "ANDROID",
				ClientVersion:     androidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.playerURL+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUA)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", androidVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.FromTransport(err, "caption listing failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &apperr.Error{
			Kind:    apperr.RateLimited,
			Message: "Request blocked by YouTube",
			Hint:    "YouTube may be rate-limiting. Please try again later.",
			VideoID: videoID,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.New(apperr.Unavailable, "caption listing failed: HTTP %d", resp.StatusCode)
	}

	var player playerResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPlayerBody)).Decode(&player); err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, err, "decode player response")
	}

	if player.Captions == nil {
		return nil, classifyMissingCaptions(player, videoID)
	}

	raw := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	tracks := make([]transcript.CaptionTrack, 0, len(raw))
	for _, t := range raw {
		tracks = append(tracks, transcript.CaptionTrack{
			VideoID:        videoID,
			ID:             t.BaseURL,
			LanguageCode:   t.LanguageCode,
			Language:       t.Name.text(),
			IsGenerated:    t.Kind == "asr",
			IsTranslatable: t.IsTranslatable,
		})
	}
	return tracks, nil
}

// classifyMissingCaptions tells apart "video does not exist" from "captions
// turned off" using the playability status.
func classifyMissingCaptions(player playerResponse, videoID string) error {
	if ps := player.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != "OK" {
		return &apperr.Error{
			Kind:    apperr.NotFound,
			Message: "Video is unavailable or does not exist",
			Hint:    ps.Reason,
			VideoID: videoID,
		}
	}
	return &apperr.Error{
		Kind:    apperr.CaptionsDisabled,
		Message: "Transcripts are disabled for this video",
		VideoID: videoID,
	}
}

// Fetch downloads and parses the timedtext XML behind a track.
func (c *Client) Fetch(ctx context.Context, track transcript.CaptionTrack) ([]transcript.CaptionEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.ID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", androidUA)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.FromTransport(err, "fetch captions for %s", track.VideoID)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &apperr.Error{
			Kind:    apperr.RateLimited,
			Message: "Request blocked by YouTube",
			VideoID: track.VideoID,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperr.New(apperr.Unavailable, "fetch captions: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedTextBody))
	if err != nil {
		return nil, apperr.FromTransport(err, "read captions for %s", track.VideoID)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, apperr.Wrap(apperr.Unavailable, err, "parse timedtext XML")
	}

	entries := make([]transcript.CaptionEntry, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		entries = append(entries, transcript.CaptionEntry{
			// timedtext double-escapes entities; the XML decoder handles one
			// layer, this handles the other (&amp;#39; et al).
			Text:     html.UnescapeString(line.Text),
			Start:    line.Start,
			Duration: line.Dur,
		})
	}
	return entries, nil
}

// Translate returns a copy of track pointing at the translated timedtext.
func (c *Client) Translate(ctx context.Context, track transcript.CaptionTrack, targetLang string) (transcript.CaptionTrack, error) {
	if !track.IsTranslatable {
		return transcript.CaptionTrack{}, fmt.Errorf("track %s is not translatable", track.LanguageCode)
	}

	u, err := url.Parse(track.ID)
	if err != nil {
		return transcript.CaptionTrack{}, fmt.Errorf("parse caption URL: %w", err)
	}
	q := u.Query()
	q.Set("tlang", targetLang)
	u.RawQuery = q.Encode()

	out := track
	out.ID = u.String()
	out.LanguageCode = targetLang
	if !strings.EqualFold(track.LanguageCode, targetLang) {
		out.Language = track.Language + " (translated)"
	}
	return out, nil
}

var _ transcript.CaptionSource = (*Client)(nil)

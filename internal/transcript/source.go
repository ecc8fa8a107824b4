package transcript

import "context"

// CaptionSource lists, fetches, and translates caption tracks for a video.
//
// Implementations signal failures with typed apperr values: CaptionsDisabled
// when the video has captions turned off, NotFound when the video does not
// exist, RateLimited when the upstream blocks the request, and
// Timeout/Unavailable for transport failures.
type CaptionSource interface {
	// List enumerates the available caption tracks for a video, in the
	// source's native order.
	List(ctx context.Context, videoID string) ([]CaptionTrack, error)
	// Fetch retrieves the ordered caption entries of a track.
	Fetch(ctx context.Context, track CaptionTrack) ([]CaptionEntry, error)
	// Translate returns a variant of track in the target language.
	// It fails when the track is not translatable.
	Translate(ctx context.Context, track CaptionTrack, targetLang string) (CaptionTrack, error)
}

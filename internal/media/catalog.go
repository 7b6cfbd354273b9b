package media

import (
	"sort"
	"strconv"
	"strings"
)

// ProgressiveVideo filters streams down to progressive video encodings and
// orders them for presentation: resolution height descending, ties broken by
// fps descending, then declared size descending, then provider order. The
// sort is stable, so identical resolution labels from different underlying
// encodings keep their provider order and re-running on the same input
// yields the same listing.
func ProgressiveVideo(streams []Stream) []Stream {
	filtered := make([]Stream, 0, len(streams))
	for _, stream := range streams {
		if stream.Kind == KindVideo {
			filtered = append(filtered, stream)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		if ha, hb := ResolutionHeight(a.Resolution), ResolutionHeight(b.Resolution); ha != hb {
			return ha > hb
		}
		if a.FPS != b.FPS {
			return a.FPS > b.FPS
		}
		return a.SizeBytes > b.SizeBytes
	})
	return filtered
}

// AudioOnly filters streams down to audio-only encodings, preserving
// provider order. The first entry is treated as the provider's preferred
// quality and is the one the audio pipeline fetches.
func AudioOnly(streams []Stream) []Stream {
	filtered := make([]Stream, 0, len(streams))
	for _, stream := range streams {
		if stream.Kind == KindAudio {
			filtered = append(filtered, stream)
		}
	}
	return filtered
}

// FindResolution returns the first catalog entry whose resolution label
// matches tag. With duplicate labels the listing order decides, which keeps
// selection consistent with what the user was shown.
func FindResolution(catalog []Stream, tag string) (Stream, bool) {
	tag = strings.TrimSpace(tag)
	for _, stream := range catalog {
		if strings.EqualFold(stream.Resolution, tag) {
			return stream, true
		}
	}
	return Stream{}, false
}

// ResolutionHeight parses the numeric height out of a resolution label.
// Unparseable or empty labels sort last with height 0.
func ResolutionHeight(tag string) int {
	tag = strings.TrimSpace(strings.ToLower(tag))
	tag = strings.TrimSuffix(tag, "p")
	if tag == "" {
		return 0
	}
	height, err := strconv.Atoi(tag)
	if err != nil || height < 0 {
		return 0
	}
	return height
}

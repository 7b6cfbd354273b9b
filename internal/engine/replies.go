package engine

import (
	"fmt"
	"strings"

	"reel/internal/media"
	"reel/internal/services"
	"reel/internal/session"
)

const (
	replyWelcome   = "Welcome to the Reel downloader! Send a video URL to begin."
	replyCancelled = "Operation cancelled. Use /start to begin again."
	replyBusy      = "Still working on your previous request. Please wait for it to finish."
	replyDone      = "Done! Send another URL or /cancel to stop."

	replyFetchingVideo = "Downloading video... this may take a moment."
	replyFetchingAudio = "Downloading audio... this may take a moment."

	replyInvalidReference = "Error: Invalid URL or issue fetching video. Try again."
	replyStreamsError     = "Error fetching streams. Send another URL to try again."
	replyNoVideoStreams   = "No MP4 video streams available for this video."
	replyNoAudioStreams   = "No audio stream available."

	replyDownloadError  = "Error downloading video. Send another URL to try again."
	replyTranscodeError = "Error converting audio to MP3. Send another URL to try again."
	replyDeliveryError  = "Error sending the file. It may be too large for the transport. Send another URL to try again."
)

func replyResolved(title string) string {
	return fmt.Sprintf("Got it! Video: %s\nChoose format: /video (MP4) or /audio (MP3)", title)
}

func replyListing(catalog []media.Stream) string {
	var builder strings.Builder
	builder.WriteString("Available resolutions:\n")
	for i, stream := range catalog {
		builder.WriteString(fmt.Sprintf("%d. %s @%dfps (%.2f MB) - /res_%s\n",
			i+1, stream.Resolution, stream.FPS, megabytes(stream.SizeBytes), stream.Resolution))
	}
	builder.WriteString("\nSelect a resolution by typing the command (e.g., /res_1080p).")
	return builder.String()
}

func replyUnknownResolution(tag string) string {
	return fmt.Sprintf("No stream found for %s. Try another resolution.", tag)
}

func replySizeExceededVideo(sizeBytes, limitBytes int64) string {
	return fmt.Sprintf("File size (%.2f MB) exceeds the %.0f MB delivery limit. Choose a lower resolution or /cancel.",
		megabytes(sizeBytes), megabytes(limitBytes))
}

func replySizeExceededAudio(sizeBytes, limitBytes int64) string {
	return fmt.Sprintf("File size (%.2f MB) exceeds the %.0f MB delivery limit. Send another URL to try a different video.",
		megabytes(sizeBytes), megabytes(limitBytes))
}

// replyGuidance is the single reply an out-of-place intent produces; the
// session itself is left untouched.
func replyGuidance(state session.State) string {
	switch state {
	case session.StateAwaitingFormat:
		return "Choose format: /video (MP4) or /audio (MP3)"
	case session.StateAwaitingResolution:
		return "Select a resolution from the list (e.g., /res_1080p), or /cancel."
	default:
		return "No video selected. Send a video URL first."
	}
}

// replyForPipelineError maps each pipeline failure kind to exactly one user
// reply. Unknown kinds read as download failures.
func replyForPipelineError(err error, limitBytes int64) string {
	switch services.Classify(err) {
	case services.KindSizeLimit:
		return fmt.Sprintf("The downloaded file exceeds the %.0f MB delivery limit. Send another URL to try a different video.",
			megabytes(limitBytes))
	case services.KindTranscode:
		return replyTranscodeError
	case services.KindDelivery:
		return replyDeliveryError
	default:
		return replyDownloadError
	}
}

func megabytes(sizeBytes int64) float64 {
	return float64(sizeBytes) / (1024 * 1024)
}

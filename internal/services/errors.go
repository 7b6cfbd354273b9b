package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidReference = errors.New("invalid reference")
	ErrMetadataFetch    = errors.New("metadata fetch error")
	ErrNoStreams        = errors.New("no streams available")
	ErrUnknownSelector  = errors.New("unknown selector")
	ErrSizeLimit        = errors.New("size limit exceeded")
	ErrDownload         = errors.New("download error")
	ErrTranscode        = errors.New("transcode error")
	ErrDelivery         = errors.New("delivery error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrDownload
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind is a stable string identifier for an error class, used for history
// records and log fields.
type Kind string

const (
	KindInvalidReference Kind = "invalid_reference"
	KindMetadataFetch    Kind = "metadata_fetch"
	KindNoStreams        Kind = "no_streams"
	KindUnknownSelector  Kind = "unknown_selector"
	KindSizeLimit        Kind = "size_limit"
	KindDownload         Kind = "download"
	KindTranscode        Kind = "transcode"
	KindDelivery         Kind = "delivery"
	KindUnknown          Kind = "unknown"
)

// Classify maps an error to its taxonomy kind. Untagged errors classify as
// KindUnknown and should be treated like download failures by callers.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidReference):
		return KindInvalidReference
	case errors.Is(err, ErrMetadataFetch):
		return KindMetadataFetch
	case errors.Is(err, ErrNoStreams):
		return KindNoStreams
	case errors.Is(err, ErrUnknownSelector):
		return KindUnknownSelector
	case errors.Is(err, ErrSizeLimit):
		return KindSizeLimit
	case errors.Is(err, ErrDownload):
		return KindDownload
	case errors.Is(err, ErrTranscode):
		return KindTranscode
	case errors.Is(err, ErrDelivery):
		return KindDelivery
	default:
		return KindUnknown
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

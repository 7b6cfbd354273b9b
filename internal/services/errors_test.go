package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"reel/internal/services"
)

func TestWrapTagsMarkerAndDetail(t *testing.T) {
	base := errors.New("exit status 1")
	err := services.Wrap(services.ErrDownload, "ytdlp", "fetch", "format 22", base)
	if !errors.Is(err, services.ErrDownload) {
		t.Fatalf("expected wrapped error to match ErrDownload, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to retain cause, got %v", err)
	}
	for _, fragment := range []string{"ytdlp", "fetch", "format 22"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("expected %q in error message %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "ffmpeg", "transcode", "", nil)
	if !errors.Is(err, services.ErrDownload) {
		t.Fatalf("expected nil marker to default to ErrDownload, got %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		marker error
		want   services.Kind
	}{
		{services.ErrInvalidReference, services.KindInvalidReference},
		{services.ErrMetadataFetch, services.KindMetadataFetch},
		{services.ErrNoStreams, services.KindNoStreams},
		{services.ErrUnknownSelector, services.KindUnknownSelector},
		{services.ErrSizeLimit, services.KindSizeLimit},
		{services.ErrDownload, services.KindDownload},
		{services.ErrTranscode, services.KindTranscode},
		{services.ErrDelivery, services.KindDelivery},
	}
	for _, tc := range cases {
		err := services.Wrap(tc.marker, "component", "op", "", nil)
		if got := services.Classify(err); got != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.marker, got, tc.want)
		}
	}
	if got := services.Classify(fmt.Errorf("plain failure")); got != services.KindUnknown {
		t.Errorf("Classify(plain) = %q, want %q", got, services.KindUnknown)
	}
	if got := services.Classify(nil); got != services.KindUnknown {
		t.Errorf("Classify(nil) = %q, want %q", got, services.KindUnknown)
	}
}

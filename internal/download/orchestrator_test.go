package download_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"reel/internal/config"
	"reel/internal/download"
	"reel/internal/logging"
	"reel/internal/media"
	"reel/internal/services"
)

type fakeSource struct {
	fetchSize int64
	fetchErr  error
}

func (f *fakeSource) Resolve(context.Context, string) (*media.Ref, error) {
	return &media.Ref{ID: "ref", Title: "Example"}, nil
}

func (f *fakeSource) Streams(context.Context, *media.Ref) ([]media.Stream, error) {
	return nil, nil
}

func (f *fakeSource) Fetch(_ context.Context, _ *media.Ref, _ media.Stream, dest string) error {
	if f.fetchErr != nil {
		return f.fetchErr
	}
	return os.WriteFile(dest, make([]byte, f.fetchSize), 0o644)
}

type fakeTranscoder struct {
	called  bool
	err     error
	outSize int64
}

func (f *fakeTranscoder) TranscodeToMP3(_ context.Context, source, dest string, _ int) error {
	f.called = true
	if f.err != nil {
		return f.err
	}
	if _, err := os.Stat(source); err != nil {
		return err
	}
	return os.WriteFile(dest, make([]byte, f.outSize), 0o644)
}

type fakeDeliverer struct {
	err       error
	gotPath   string
	gotKind   media.Kind
	sawOnDisk bool
}

func (f *fakeDeliverer) SendFile(_ context.Context, _ int64, path string, kind media.Kind) error {
	f.gotPath = path
	f.gotKind = kind
	if _, err := os.Stat(path); err == nil {
		f.sawOnDisk = true
	}
	return f.err
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.ScratchDir = t.TempDir()
	cfg.Delivery.SizeLimitBytes = 1 << 20
	cfg.Delivery.OperationTimeout = 5
	return &cfg
}

func assertScratchEmpty(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read scratch root: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty scratch root, found %d entries", len(entries))
	}
}

func TestDeliverVideoSuccessCleansScratch(t *testing.T) {
	cfg := newTestConfig(t)
	source := &fakeSource{fetchSize: 512}
	deliverer := &fakeDeliverer{}
	o := download.NewOrchestrator(cfg, source, &fakeTranscoder{}, deliverer, logging.NewNop())

	ref := &media.Ref{ID: "ref", Title: "Example"}
	stream := media.Stream{Resolution: "720p", Kind: media.KindVideo, SizeBytes: 512}

	artifact, err := o.DeliverVideo(context.Background(), 1, 10, ref, stream)
	if err != nil {
		t.Fatalf("DeliverVideo: %v", err)
	}
	if artifact.SizeBytes != 512 || artifact.Kind != media.KindVideo {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
	if !deliverer.sawOnDisk {
		t.Fatal("deliverer must see the artifact on disk")
	}
	if deliverer.gotKind != media.KindVideo {
		t.Fatalf("unexpected delivery kind: %q", deliverer.gotKind)
	}
	assertScratchEmpty(t, cfg.Paths.ScratchDir)
}

func TestDeliverVideoDownloadFailureCleansScratch(t *testing.T) {
	cfg := newTestConfig(t)
	source := &fakeSource{fetchErr: errors.New("network unreachable")}
	o := download.NewOrchestrator(cfg, source, &fakeTranscoder{}, &fakeDeliverer{}, logging.NewNop())

	_, err := o.DeliverVideo(context.Background(), 1, 10, &media.Ref{}, media.Stream{Kind: media.KindVideo})
	if !errors.Is(err, services.ErrDownload) {
		t.Fatalf("expected ErrDownload, got %v", err)
	}
	assertScratchEmpty(t, cfg.Paths.ScratchDir)
}

func TestDeliverVideoDeliveryFailureCleansScratch(t *testing.T) {
	cfg := newTestConfig(t)
	deliverer := &fakeDeliverer{err: errors.New("payload too large")}
	o := download.NewOrchestrator(cfg, &fakeSource{fetchSize: 64}, &fakeTranscoder{}, deliverer, logging.NewNop())

	_, err := o.DeliverVideo(context.Background(), 1, 10, &media.Ref{}, media.Stream{Kind: media.KindVideo})
	if !errors.Is(err, services.ErrDelivery) {
		t.Fatalf("expected ErrDelivery, got %v", err)
	}
	assertScratchEmpty(t, cfg.Paths.ScratchDir)
}

func TestDeliverAudioSuccessRemovesBothArtifacts(t *testing.T) {
	cfg := newTestConfig(t)
	transcoder := &fakeTranscoder{outSize: 128}
	deliverer := &fakeDeliverer{}
	o := download.NewOrchestrator(cfg, &fakeSource{fetchSize: 256}, transcoder, deliverer, logging.NewNop())

	artifact, err := o.DeliverAudio(context.Background(), 2, 20, &media.Ref{}, media.Stream{Kind: media.KindAudio})
	if err != nil {
		t.Fatalf("DeliverAudio: %v", err)
	}
	if !transcoder.called {
		t.Fatal("expected transcoder invocation")
	}
	if artifact.SizeBytes != 128 || artifact.Kind != media.KindAudio {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
	if deliverer.gotKind != media.KindAudio || !deliverer.sawOnDisk {
		t.Fatalf("unexpected delivery: %+v", deliverer)
	}
	assertScratchEmpty(t, cfg.Paths.ScratchDir)
}

func TestDeliverAudioRecheckRejectsOversizedDownload(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Delivery.SizeLimitBytes = 100
	transcoder := &fakeTranscoder{}
	o := download.NewOrchestrator(cfg, &fakeSource{fetchSize: 101}, transcoder, &fakeDeliverer{}, logging.NewNop())

	_, err := o.DeliverAudio(context.Background(), 2, 20, &media.Ref{}, media.Stream{Kind: media.KindAudio})
	if !errors.Is(err, services.ErrSizeLimit) {
		t.Fatalf("expected ErrSizeLimit, got %v", err)
	}
	if transcoder.called {
		t.Fatal("transcoder must not run after size-gate rejection")
	}
	assertScratchEmpty(t, cfg.Paths.ScratchDir)
}

func TestDeliverAudioRecheckAdmitsExactLimit(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Delivery.SizeLimitBytes = 256
	o := download.NewOrchestrator(cfg, &fakeSource{fetchSize: 256}, &fakeTranscoder{outSize: 64}, &fakeDeliverer{}, logging.NewNop())

	if _, err := o.DeliverAudio(context.Background(), 2, 20, &media.Ref{}, media.Stream{Kind: media.KindAudio}); err != nil {
		t.Fatalf("expected size equal to limit to pass re-check: %v", err)
	}
	assertScratchEmpty(t, cfg.Paths.ScratchDir)
}

func TestDeliverAudioTranscodeFailureCleansScratch(t *testing.T) {
	cfg := newTestConfig(t)
	transcoder := &fakeTranscoder{err: errors.New("codec missing")}
	o := download.NewOrchestrator(cfg, &fakeSource{fetchSize: 64}, transcoder, &fakeDeliverer{}, logging.NewNop())

	_, err := o.DeliverAudio(context.Background(), 2, 20, &media.Ref{}, media.Stream{Kind: media.KindAudio})
	if !errors.Is(err, services.ErrTranscode) {
		t.Fatalf("expected ErrTranscode, got %v", err)
	}
	assertScratchEmpty(t, cfg.Paths.ScratchDir)
}

func TestConcurrentSessionsUseDistinctScopes(t *testing.T) {
	cfg := newTestConfig(t)
	o := download.NewOrchestrator(cfg, &fakeSource{fetchSize: 16}, &fakeTranscoder{outSize: 8}, &fakeDeliverer{}, logging.NewNop())

	done := make(chan error, 2)
	for _, userID := range []int64{1, 2} {
		go func(id int64) {
			_, err := o.DeliverVideo(context.Background(), id, id*10, &media.Ref{}, media.Stream{Kind: media.KindVideo})
			done <- err
		}(userID)
	}
	for i := 0; i < 2; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent delivery failed: %v", err)
		}
	}
	assertScratchEmpty(t, cfg.Paths.ScratchDir)
}

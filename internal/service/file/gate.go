package file

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/KNICEX/ai-tutor/internal/service/display"
	"github.com/KNICEX/ai-tutor/internal/service/llm"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"
)

// Document is a local file to be uploaded and attached to conversations.
type Document struct {
	Path     string `mapstructure:"path"`
	MIMEType string `mapstructure:"mime_type"`
}

type ReadyResult struct {
	Files []llm.RemoteFile
	Err   error
}

// Gate uploads documents and blocks until the provider reports them usable.
type Gate struct {
	store  llm.FileStore
	policy PollPolicy
	sink   display.Sink
	logger zerolog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

type Option func(g *Gate)

func WithPolicy(policy PollPolicy) Option {
	return func(g *Gate) {
		g.policy = policy
	}
}

func WithSink(sink display.Sink) Option {
	return func(g *Gate) {
		g.sink = sink
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// WithSleeper replaces the wait between polls.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Gate) {
		g.sleep = sleep
	}
}

func NewGate(store llm.FileStore, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		policy: DefaultPolicy(),
		sink:   display.Discard,
		logger: zerolog.Nop(),
		sleep:  sleepCtx,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Submit uploads the file at path. An empty mimeType is detected from the
// file content.
func (g *Gate) Submit(ctx context.Context, path, mimeType string) (llm.RemoteFile, error) {
	if mimeType == "" {
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			return llm.RemoteFile{}, &llm.UploadError{Path: path, Err: err}
		}
		mimeType, _, _ = strings.Cut(mt.String(), ";")
	}

	f, err := g.store.Upload(ctx, path, mimeType)
	if err != nil {
		g.logger.Error().Err(err).Str("path", path).Msg("failed to upload file")
		return llm.RemoteFile{}, &llm.UploadError{Path: path, Err: err}
	}
	if f.State == "" {
		f.State = llm.FileStatePending
	}
	if f.LocalPath == "" {
		f.LocalPath = path
	}
	if f.MIMEType == "" {
		f.MIMEType = mimeType
	}
	g.sink.Notice(fmt.Sprintf("Uploaded file '%s' as: %s", displayName(f), f.URI))
	return f, nil
}

// SubmitAll uploads docs concurrently. The result keeps the order of docs.
func (g *Gate) SubmitAll(ctx context.Context, docs []Document) ([]llm.RemoteFile, error) {
	return iter.MapErr(docs, func(doc *Document) (llm.RemoteFile, error) {
		return g.Submit(ctx, doc.Path, doc.MIMEType)
	})
}

// AwaitReady polls every handle in order until it is active. The first handle
// seen failed aborts the wait with *llm.FileProcessingFailed.
func (g *Gate) AwaitReady(ctx context.Context, files []llm.RemoteFile) ([]llm.RemoteFile, error) {
	if g.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.policy.Timeout)
		defer cancel()
	}

	ready := make([]llm.RemoteFile, 0, len(files))
	for _, f := range files {
		got, err := g.await(ctx, f)
		if err != nil {
			return nil, err
		}
		ready = append(ready, got)
	}
	return ready, nil
}

// AwaitReadyAsync runs AwaitReady on its own goroutine. The channel receives
// exactly one result and is then closed.
func (g *Gate) AwaitReadyAsync(ctx context.Context, files []llm.RemoteFile) <-chan ReadyResult {
	ch := make(chan ReadyResult, 1)
	go func() {
		defer close(ch)
		ready, err := g.AwaitReady(ctx, files)
		ch <- ReadyResult{Files: ready, Err: err}
	}()
	return ch
}

func (g *Gate) await(ctx context.Context, f llm.RemoteFile) (llm.RemoteFile, error) {
	b := g.policy.backoff()
	polls := 0
	for !f.State.Terminal() {
		g.sink.Notice(fmt.Sprintf("Waiting for '%s' to be processed...", displayName(f)))
		if err := g.sleep(ctx, b.Duration()); err != nil {
			return f, fmt.Errorf("wait for file %s: %w", f.Name, err)
		}

		state, err := g.store.Status(ctx, f)
		if err != nil {
			return f, err
		}
		polls++
		f.State = state
		g.logger.Debug().Str("file", f.Name).Str("state", string(state)).Int("polls", polls).Msg("polled file state")
	}

	if f.State == llm.FileStateFailed {
		g.logger.Error().Str("file", f.Name).Int("polls", polls).Msg("file processing failed")
		return f, &llm.FileProcessingFailed{File: f}
	}
	g.sink.Notice(fmt.Sprintf("File '%s' is ready", displayName(f)))
	return f, nil
}

func displayName(f llm.RemoteFile) string {
	switch {
	case f.DisplayName != "":
		return f.DisplayName
	case f.LocalPath != "":
		return f.LocalPath
	default:
		return f.Name
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

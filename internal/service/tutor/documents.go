package tutor

import (
	"context"

	"github.com/KNICEX/ai-tutor/internal/service/file"
	"github.com/KNICEX/ai-tutor/internal/service/llm"
)

// Documents holds the files attached to new sessions while their upload is
// still settling. A failed upload leaves the tutor without documents.
type Documents struct {
	done  chan struct{}
	files []llm.RemoteFile
	err   error
}

// NewDocuments waits for ready in the background. onErr, if set, is called
// once when the documents could not be made ready.
func NewDocuments(ready <-chan file.ReadyResult, onErr func(error)) *Documents {
	d := &Documents{done: make(chan struct{})}
	go func() {
		defer close(d.done)
		res, ok := <-ready
		if !ok {
			return
		}
		if res.Err != nil {
			d.err = res.Err
			if onErr != nil {
				onErr(res.Err)
			}
			return
		}
		d.files = res.Files
	}()
	return d
}

// Wait blocks until the documents settled or ctx is done. The error is the
// upload failure, if any.
func (d *Documents) Wait(ctx context.Context) ([]llm.RemoteFile, error) {
	select {
	case <-d.done:
		return d.files, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

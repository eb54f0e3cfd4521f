package pipeline

import (
	"context"
	"io"
	"time"

	gserrors "github.com/matzehuels/gazestep/pkg/errors"
	"github.com/matzehuels/gazestep/pkg/gesture"
	"github.com/matzehuels/gazestep/pkg/observability"
)

// Decode reads the gesture document at path. Documents are small and always
// read fresh, so this stage is never cached.
func (r *Runner) Decode(ctx context.Context, path string) (*gesture.Document, error) {
	if err := gserrors.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	return r.decode(ctx, path, func() (*gesture.Document, error) {
		return gesture.ReadFile(path)
	})
}

// DecodeReader reads a gesture document in the given format from rd. The
// source names the document in logs and hooks.
func (r *Runner) DecodeReader(ctx context.Context, rd io.Reader, format gesture.Format, source string) (*gesture.Document, error) {
	return r.decode(ctx, source, func() (*gesture.Document, error) {
		return gesture.Decode(rd, format)
	})
}

func (r *Runner) decode(ctx context.Context, source string, read func() (*gesture.Document, error)) (*gesture.Document, error) {
	start := time.Now()
	doc, err := read()
	count := 0
	if doc != nil {
		count = len(doc.Gestures)
	}
	observability.Pipeline().OnDecode(ctx, observability.DecodeEvent{
		Source:   source,
		Gestures: count,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("decoded document",
		"source", source,
		"gestures", count,
		"duration", time.Since(start))
	return doc, nil
}

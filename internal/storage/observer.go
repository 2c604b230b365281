package storage

import (
	"context"
	"net/http"
	"time"
)

// Observer captures telemetry for storage operations.
type Observer interface {
	RecordStore(backend string, duration time.Duration, sizeBytes int64, err error)
	RecordDelete(backend string, duration time.Duration, err error)
}

// InstrumentedBackend reports every operation of the wrapped backend to an
// Observer.
type InstrumentedBackend struct {
	next     Backend
	observer Observer
}

// Instrumented wraps backend. A nil observer returns backend unchanged.
func Instrumented(backend Backend, observer Observer) Backend {
	if observer == nil {
		return backend
	}
	return &InstrumentedBackend{next: backend, observer: observer}
}

func (b *InstrumentedBackend) Store(ctx context.Context, upload Upload) (*Asset, error) {
	start := time.Now()
	asset, err := b.next.Store(ctx, upload)
	var size int64
	if asset != nil {
		size = asset.Size
	}
	b.observer.RecordStore(b.next.Name(), time.Since(start), size, err)
	return asset, err
}

func (b *InstrumentedBackend) Delete(ctx context.Context, ref string) error {
	start := time.Now()
	err := b.next.Delete(ctx, ref)
	b.observer.RecordDelete(b.next.Name(), time.Since(start), err)
	return err
}

func (b *InstrumentedBackend) SupportsDelete() bool {
	return b.next.SupportsDelete()
}

func (b *InstrumentedBackend) Name() string {
	return b.next.Name()
}

func (b *InstrumentedBackend) Unwrap() Backend {
	return b.next
}

// FileServer returns the URL prefix and handler for backends that serve
// their own files (local disk). ok is false for remote backends whose
// references are absolute URLs.
func FileServer(backend Backend) (prefix string, handler http.Handler, ok bool) {
	for backend != nil {
		switch b := backend.(type) {
		case *LocalStorage:
			return b.URLPrefix() + "/", b.Handler(), true
		case interface{ Unwrap() Backend }:
			backend = b.Unwrap()
		default:
			return "", nil, false
		}
	}
	return "", nil, false
}

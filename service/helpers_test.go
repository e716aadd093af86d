package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"khichik-studio/models"
	"khichik-studio/repository"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// memoryImageStore is an in-memory ImageStoreInterface
type memoryImageStore struct {
	mu     sync.Mutex
	images map[string][]byte
	mimes  map[string]string
	err    error
}

func newMemoryImageStore() *memoryImageStore {
	return &memoryImageStore{images: map[string][]byte{}, mimes: map[string]string{}}
}

var _ repository.ImageStoreInterface = (*memoryImageStore)(nil)

func (m *memoryImageStore) Put(ctx context.Context, data []byte, mimeType string) (models.ImageRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.ImageRef{}, m.err
	}
	id := uuid.NewString()
	m.images[id] = data
	m.mimes[id] = mimeType
	return models.ImageRef{ID: id, URL: repository.ImageURL(id), MimeType: mimeType, Data: data}, nil
}

func (m *memoryImageStore) Get(ctx context.Context, id string) ([]byte, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.images[id]
	if !ok {
		return nil, "", repository.ErrImageNotFound
	}
	return data, m.mimes[id], nil
}

func (m *memoryImageStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, id)
	return nil
}

func (m *memoryImageStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.images)
}

// scriptedRemover returns a fixed result and can block until released
type scriptedRemover struct {
	result  []byte
	err     error
	release chan struct{}
	calls   chan []byte
}

func (r *scriptedRemover) Remove(ctx context.Context, imageData []byte, cfg models.RemovalConfig) ([]byte, error) {
	if r.calls != nil {
		r.calls <- imageData
	}
	if r.release != nil {
		select {
		case <-r.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.result, r.err
}

// gatedRemover hands out one gate per call in call order. Each call reports on
// started and then waits until its gate is released.
type gatedRemover struct {
	mu    sync.Mutex
	gates []*removerGate
	next  int
}

type removerGate struct {
	started chan struct{}
	release chan struct{}
	result  []byte
	err     error
}

func newRemoverGate(result []byte, err error) *removerGate {
	return &removerGate{started: make(chan struct{}), release: make(chan struct{}), result: result, err: err}
}

func (r *gatedRemover) Remove(ctx context.Context, imageData []byte, cfg models.RemovalConfig) ([]byte, error) {
	r.mu.Lock()
	if r.next >= len(r.gates) {
		r.mu.Unlock()
		return nil, errors.New("unexpected remover call")
	}
	g := r.gates[r.next]
	r.next++
	r.mu.Unlock()

	close(g.started)
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.result, g.err
}

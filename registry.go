// SPDX-License-Identifier: EPL-2.0

package detmix

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ik5/detmix/audio"
)

// Registry owns every Buffer and Source behind one lock and hands out integer
// handles for them. Handles start at 1 and are never reused. Deleted objects go
// to free lists and back the next create call.
//
// Buffers and Sources must only be touched inside WithBuffer or WithSource
// callbacks, or through the Registry methods.
type Registry struct {
	mu sync.Mutex

	cfg    Config
	logger *slog.Logger

	buffers     map[int]*audio.Buffer
	sources     map[int]*audio.Source
	freeBuffers []*audio.Buffer
	freeSources []*audio.Source

	nextBuffer int
	nextSource int

	// order lists source ids ascending, the mixing order.
	order []int

	volume float32
	muted  bool

	frac     int64 // tick to frames remainder of the output
	tickFrac int64 // frames to tick remainder of MixFrames
}

// New creates a Registry mixing to cfg.Output.
func New(cfg Config) (*Registry, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Output.Validate(); err != nil {
		return nil, fmt.Errorf("output format: %w", err)
	}
	if !cfg.Output.Format.IsPCM() {
		return nil, fmt.Errorf("output format %v: %w", cfg.Output.Format, audio.ErrUnsupportedFormat)
	}

	return &Registry{
		cfg:        cfg,
		logger:     cfg.Logger,
		buffers:    make(map[int]*audio.Buffer),
		sources:    make(map[int]*audio.Source),
		nextBuffer: 1,
		nextSource: 1,
		volume:     cfg.Volume,
	}, nil
}

// Output is the format of mixed periods.
func (r *Registry) Output() audio.StreamFormat {
	return r.cfg.Output
}

// CreateBuffer allocates an empty buffer and returns its handle.
func (r *Registry) CreateBuffer() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.buffers) >= r.cfg.MaxBuffers {
		return 0, fmt.Errorf("%d buffers: %w", len(r.buffers), ErrTooManyBuffers)
	}

	id := r.nextBuffer
	r.nextBuffer++

	var b *audio.Buffer
	if n := len(r.freeBuffers); n > 0 {
		b = r.freeBuffers[n-1]
		r.freeBuffers = r.freeBuffers[:n-1]
		b.Reset()
		b.ID = id
	} else {
		b = audio.NewBuffer(id)
	}
	r.buffers[id] = b

	r.logger.Debug("buffer created", "buffer", id)

	return id, nil
}

// DeleteBuffer releases a buffer. A buffer still queued on a source cannot be deleted.
func (r *Registry) DeleteBuffer(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buffers[id]
	if !ok {
		return fmt.Errorf("buffer %d: %w", id, ErrUnknownBuffer)
	}
	for sid, s := range r.sources {
		if s.HasBuffer(b) {
			return fmt.Errorf("buffer %d on source %d: %w", id, sid, ErrBufferInUse)
		}
	}

	delete(r.buffers, id)
	b.ID = 0
	r.freeBuffers = append(r.freeBuffers, b)

	r.logger.Debug("buffer deleted", "buffer", id)

	return nil
}

// WithBuffer runs fn on a buffer under the registry lock.
func (r *Registry) WithBuffer(id int, fn func(b *audio.Buffer) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.buffers[id]
	if !ok {
		return fmt.Errorf("buffer %d: %w", id, ErrUnknownBuffer)
	}
	return fn(b)
}

// CreateSource allocates a source in the initial state and returns its handle.
func (r *Registry) CreateSource() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.sources) >= r.cfg.MaxSources {
		return 0, fmt.Errorf("%d sources: %w", len(r.sources), ErrTooManySources)
	}

	id := r.nextSource
	r.nextSource++

	var s *audio.Source
	if n := len(r.freeSources); n > 0 {
		s = r.freeSources[n-1]
		r.freeSources = r.freeSources[:n-1]
		s.Reset()
		s.ID = id
	} else {
		s = audio.NewSource(id, r.cfg.Resampler, r.logger)
	}
	s.Legacy = r.cfg.Legacy

	r.sources[id] = s
	r.order = append(r.order, id)

	r.logger.Debug("source created", "source", id)

	return id, nil
}

// DeleteSource releases a source and its resampler. Its queued buffers stay
// in the registry.
func (r *Registry) DeleteSource(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sources[id]
	if !ok {
		return fmt.Errorf("source %d: %w", id, ErrUnknownSource)
	}

	delete(r.sources, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}

	err := s.Close()
	s.Reset()
	s.ID = 0
	r.freeSources = append(r.freeSources, s)

	r.logger.Debug("source deleted", "source", id)

	if err != nil {
		return fmt.Errorf("delete source %d: %w", id, err)
	}
	return nil
}

// WithSource runs fn on a source under the registry lock.
func (r *Registry) WithSource(id int, fn func(s *audio.Source) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sources[id]
	if !ok {
		return fmt.Errorf("source %d: %w", id, ErrUnknownSource)
	}
	return fn(s)
}

// SetBuffer makes source a static source playing buffer.
func (r *Registry) SetBuffer(sourceID, bufferID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sources[sourceID]
	if !ok {
		return fmt.Errorf("source %d: %w", sourceID, ErrUnknownSource)
	}
	b, ok := r.buffers[bufferID]
	if !ok {
		return fmt.Errorf("buffer %d: %w", bufferID, ErrUnknownBuffer)
	}

	s.Kind = audio.KindStatic
	s.SetBuffer(b)
	return nil
}

// QueueBuffers appends buffers to a source queue. A source of undetermined
// kind becomes a streaming source. Nothing is queued if any id is unknown.
func (r *Registry) QueueBuffers(sourceID int, bufferIDs ...int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sources[sourceID]
	if !ok {
		return fmt.Errorf("source %d: %w", sourceID, ErrUnknownSource)
	}

	bufs := make([]*audio.Buffer, 0, len(bufferIDs))
	for _, id := range bufferIDs {
		b, ok := r.buffers[id]
		if !ok {
			return fmt.Errorf("buffer %d: %w", id, ErrUnknownBuffer)
		}
		bufs = append(bufs, b)
	}

	if s.Kind == audio.KindUndetermined {
		s.Kind = audio.KindStreaming
	}
	s.Enqueue(bufs...)
	return nil
}

// UnqueueBuffers removes up to n processed buffers from a source and returns
// their ids, oldest first.
func (r *Registry) UnqueueBuffers(sourceID, n int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sources[sourceID]
	if !ok {
		return nil, fmt.Errorf("source %d: %w", sourceID, ErrUnknownSource)
	}

	done := s.Unqueue(n)
	ids := make([]int, len(done))
	for i, b := range done {
		ids[i] = b.ID
	}
	return ids, nil
}

// SetVolume sets the master gain.
func (r *Registry) SetVolume(v float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.volume = v
}

// SetMute keeps sources advancing without mixing them.
func (r *Registry) SetMute(muted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.muted = muted
}

func (r *Registry) Muted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.muted
}

// Close releases every source resampler. The registry must not be used afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, id := range r.order {
		if err := r.sources[id].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	clear(r.sources)
	clear(r.buffers)
	r.order = r.order[:0]
	r.freeBuffers = nil
	r.freeSources = nil

	return errors.Join(errs...)
}

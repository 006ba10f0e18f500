// SPDX-License-Identifier: EPL-2.0

package detmix

import (
	"slices"

	"github.com/ik5/detmix/audio"
)

// BufferInfo is a copy of a buffer's parameters.
type BufferInfo struct {
	ID        int
	Format    audio.SampleFormat
	Channels  int
	Frequency int
	Frames    int
	LoopBegin int
	LoopEnd   int
}

// SourceInfo is a copy of a source's playback state.
type SourceInfo struct {
	ID          int
	Kind        audio.Kind
	State       audio.State
	Looping     bool
	Volume      float32
	Pitch       float32
	Position    int
	QueueSize   int
	Queued      int
	Processed   int
	Saturations uint64
}

// Snapshot is a consistent view of the registry for debug and UI readers.
type Snapshot struct {
	Buffers []BufferInfo
	Sources []SourceInfo
	Muted   bool
	Volume  float32
}

// Snapshot copies the state of every buffer and source, sorted by id.
func (r *Registry) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		Buffers: make([]BufferInfo, 0, len(r.buffers)),
		Sources: make([]SourceInfo, 0, len(r.order)),
		Muted:   r.muted,
		Volume:  r.volume,
	}

	for id, b := range r.buffers {
		snap.Buffers = append(snap.Buffers, BufferInfo{
			ID:        id,
			Format:    b.Format,
			Channels:  b.Channels,
			Frequency: b.Frequency,
			Frames:    b.FrameCount(),
			LoopBegin: b.LoopBegin,
			LoopEnd:   b.LoopEnd,
		})
	}
	slices.SortFunc(snap.Buffers, func(a, b BufferInfo) int { return a.ID - b.ID })

	for _, id := range r.order {
		s := r.sources[id]
		snap.Sources = append(snap.Sources, SourceInfo{
			ID:          id,
			Kind:        s.Kind,
			State:       s.State(),
			Looping:     s.Looping,
			Volume:      s.Volume,
			Pitch:       s.Pitch,
			Position:    s.Position(),
			QueueSize:   s.QueueSize(),
			Queued:      s.NbQueued(),
			Processed:   s.NbQueueProcessed(),
			Saturations: s.Saturations(),
		})
	}

	return snap
}

// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"log/slog"
	"time"
)

// Kind tells how a Source is fed with buffers.
type Kind int

const (
	KindUndetermined        Kind = iota
	KindStatic                   // One buffer, set once
	KindStreaming                // A queue the application appends to
	KindStreamingContinuous      // A queue that holds its last position instead of stopping
	KindCallback                 // One buffer refilled by a callback when it runs out
)

func (k Kind) String() string {
	switch k {
	case KindUndetermined:
		return "undetermined"
	case KindStatic:
		return "static"
	case KindStreaming:
		return "streaming"
	case KindStreamingContinuous:
		return "streaming-continuous"
	case KindCallback:
		return "callback"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// State of a Source's playback state machine.
type State int

const (
	StateInitial State = iota
	StatePrepared
	StatePlaying
	StatePaused
	StateStopped
	StateUnderrun
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StatePrepared:
		return "prepared"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateUnderrun:
		return "underrun"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// VirtualClock is the deterministic clock a callback Source shifts while its
// refill callback runs, so the callback observes the time its data plays at.
type VirtualClock interface {
	FakeAdvance(offset time.Duration)
}

// RefillFunc refills the buffer of a callback Source. It must call Update on
// the buffer after changing it.
type RefillFunc func(b *Buffer)

// Source plays a queue of buffers and mixes them into output periods.
//
// A Source is not safe for concurrent use, the Registry serializes access.
type Source struct {
	ID int

	Kind    Kind
	Looping bool

	// Volume is a linear gain, Pitch multiplies the buffer frequency.
	Volume float32
	Pitch  float32

	Refill RefillFunc
	Clock  VirtualClock

	// Legacy mixes 8 and 16 bit mono or stereo data with the LegacyMixer
	// instead of the resampler.
	Legacy bool

	state      State
	queue      []*Buffer
	queueIndex int
	position   int
	frac       int64

	newResampler ResamplerFactory
	resampler    Resampler
	inStream     StreamFormat
	outStream    StreamFormat

	legacy       LegacyMixer
	legacyStream StreamFormat
	gathered     []byte

	mixed       []byte
	mixedFrames int
	mixedCap    int

	saturations uint64

	logger *slog.Logger
}

// NewSource returns a source in the initial state. A nil factory selects the
// native linear resampler, a nil logger slog.Default().
func NewSource(id int, factory ResamplerFactory, logger *slog.Logger) *Source {
	if factory == nil {
		factory = DefaultResampler
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Source{
		ID:           id,
		Volume:       1,
		Pitch:        1,
		newResampler: factory,
		logger:       logger,
	}
}

// Reset returns a recycled source to its freshly created state. The resampler
// is kept but marked dirty.
func (s *Source) Reset() {
	s.Kind = KindUndetermined
	s.Looping = false
	s.Volume = 1
	s.Pitch = 1
	s.Refill = nil
	s.Clock = nil
	s.Legacy = false
	s.state = StateInitial
	clear(s.queue)
	s.queue = s.queue[:0]
	s.saturations = 0
	s.Rewind()
}

// Close releases the resampler.
func (s *Source) Close() error {
	if s.resampler == nil {
		return nil
	}

	err := s.resampler.Close()
	s.resampler = nil
	if err != nil {
		return fmt.Errorf("close resampler of source %d: %w", s.ID, err)
	}
	return nil
}

func (s *Source) State() State { return s.state }

// Saturations counts the output samples clipped while mixing this source.
func (s *Source) Saturations() uint64 { return s.saturations }

// Prepare moves the source to PREPARED. A playing or paused source cannot be prepared.
func (s *Source) Prepare() error {
	switch s.state {
	case StatePlaying, StatePaused:
		return fmt.Errorf("prepare from %v: %w", s.state, ErrInvalidTransition)
	}
	s.state = StatePrepared
	return nil
}

// Play starts playback from any state except UNDERRUN.
func (s *Source) Play() error {
	if s.state == StateUnderrun {
		return fmt.Errorf("play from %v: %w", s.state, ErrInvalidTransition)
	}
	s.state = StatePlaying
	return nil
}

func (s *Source) Pause() error {
	switch s.state {
	case StatePaused:
		return nil
	case StatePlaying:
		s.state = StatePaused
		return nil
	}
	return fmt.Errorf("pause from %v: %w", s.state, ErrInvalidTransition)
}

func (s *Source) Resume() error {
	switch s.state {
	case StatePlaying:
		return nil
	case StatePaused:
		s.state = StatePlaying
		return nil
	}
	return fmt.Errorf("resume from %v: %w", s.state, ErrInvalidTransition)
}

// Stop moves to STOPPED from any state and rewinds.
func (s *Source) Stop() {
	s.state = StateStopped
	s.Rewind()
}

// MarkUnderrun records that the output could not be fed in time.
func (s *Source) MarkUnderrun() error {
	if s.state != StatePlaying {
		return fmt.Errorf("underrun from %v: %w", s.state, ErrInvalidTransition)
	}
	s.state = StateUnderrun
	return nil
}

// Rewind goes back to the start of the queue and drops resampler state.
func (s *Source) Rewind() {
	s.position = 0
	s.frac = 0
	s.queueIndex = 0
	s.Dirty()
}

// Dirty drops the resampler state, it is re-initialized on the next mix.
func (s *Source) Dirty() {
	if s.resampler != nil {
		s.resampler.Dirty()
	}
}

// SetBuffer replaces the queue with b, as a static source does. A nil b empties it.
func (s *Source) SetBuffer(b *Buffer) {
	clear(s.queue)
	s.queue = s.queue[:0]
	if b != nil {
		s.queue = append(s.queue, b)
	}
	s.Rewind()
}

// Enqueue appends buffers to the queue.
func (s *Source) Enqueue(bufs ...*Buffer) {
	s.queue = append(s.queue, bufs...)
}

// Unqueue removes up to n fully processed buffers from the head of the queue
// and returns them.
func (s *Source) Unqueue(n int) []*Buffer {
	n = max(0, min(n, s.queueIndex))
	if n == 0 {
		return nil
	}

	out := make([]*Buffer, n)
	copy(out, s.queue[:n])

	kept := copy(s.queue, s.queue[n:])
	clear(s.queue[kept:])
	s.queue = s.queue[:kept]
	s.queueIndex -= n

	return out
}

// Buffers returns a copy of the queue.
func (s *Source) Buffers() []*Buffer {
	return append([]*Buffer(nil), s.queue...)
}

// HasBuffer reports whether b is queued.
func (s *Source) HasBuffer(b *Buffer) bool {
	for _, q := range s.queue {
		if q == b {
			return true
		}
	}
	return false
}

// NbQueued is the number of buffers in the queue.
func (s *Source) NbQueued() int { return len(s.queue) }

// NbQueueProcessed is the number of buffers fully played.
func (s *Source) NbQueueProcessed() int { return s.queueIndex }

// QueueIndex is the index of the buffer under the cursor.
func (s *Source) QueueIndex() int { return s.queueIndex }

// QueueSize is the total length of the queue in frames.
func (s *Source) QueueSize() int {
	total := 0
	for _, b := range s.queue {
		total += b.FrameCount()
	}
	return total
}

// Position is the cursor measured in frames from the start of the queue.
func (s *Source) Position() int {
	if len(s.queue) == 0 {
		return 0
	}

	pos := s.position
	for _, b := range s.queue[:min(s.queueIndex, len(s.queue))] {
		pos += b.FrameCount()
	}
	return pos
}

// SetPosition moves the cursor to pos frames from the start of the queue. A
// looping source wraps pos over the queue length, any other source past the end
// is left at the end of its last buffer.
func (s *Source) SetPosition(pos int) {
	if len(s.queue) == 0 {
		return
	}

	pos = max(0, pos)
	if s.Looping {
		if total := s.QueueSize(); total > 0 {
			pos %= total
		}
	}

	s.frac = 0
	s.Dirty()

	for i, b := range s.queue {
		if pos < b.FrameCount() {
			s.queueIndex = i
			s.position = pos
			return
		}
		pos -= b.FrameCount()
	}

	last := len(s.queue) - 1
	s.queueIndex = last
	s.position = s.queue[last].FrameCount()
}

// loopStatic reports whether the loop region of the buffer is honoured.
func (s *Source) loopStatic() bool {
	return s.Looping && s.Kind == KindStatic
}

// WillEnd reports whether mixing tick would run past the end of the queued
// data. A playing source with an empty queue will end. Looping and callback
// sources never do. It does not change the source.
func (s *Source) WillEnd(tick time.Duration) bool {
	if s.state != StatePlaying {
		return false
	}
	if len(s.queue) == 0 {
		return true
	}
	if s.Looping || s.Kind == KindCallback {
		return false
	}

	cur := s.queue[min(s.queueIndex, len(s.queue)-1)]
	frac := s.frac
	wanted := TicksToFrames(tick, s.inRate(cur), &frac)

	remaining := cur.FrameCount() - s.position
	for _, b := range s.queue[min(s.queueIndex+1, len(s.queue)):] {
		remaining += b.FrameCount()
	}

	return wanted > remaining
}

// inRate is the rate frames of b are consumed at.
func (s *Source) inRate(b *Buffer) int {
	return int(float64(b.Frequency) * float64(s.Pitch))
}

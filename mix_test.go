package detmix

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ik5/detmix/audio"
	"github.com/ik5/detmix/internal/audiotest"
)

// framesDuration is the tick that mixes exactly frames at rate on a fresh registry.
func framesDuration(frames, rate int) time.Duration {
	return time.Duration(int64(frames) * int64(time.Second) / int64(rate))
}

// playStatic creates a playing static source over buffer bid.
func playStatic(t testing.TB, r *Registry, bid int) int {
	t.Helper()

	sid, err := r.CreateSource()
	if err != nil {
		t.Fatalf("CreateSource() error: %v", err)
	}
	if err := r.SetBuffer(sid, bid); err != nil {
		t.Fatalf("SetBuffer() error: %v", err)
	}
	if err := r.WithSource(sid, func(s *audio.Source) error { return s.Play() }); err != nil {
		t.Fatalf("Play() error: %v", err)
	}
	return sid
}

func position(t testing.TB, r *Registry, sid int) int {
	t.Helper()

	var pos int
	_ = r.WithSource(sid, func(s *audio.Source) error {
		pos = s.Position()
		return nil
	})
	return pos
}

func TestRegistry_MixAllSilence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  audio.StreamFormat
		silence byte
		size    int
	}{
		{"s16 stereo", audio.StreamFormat{Format: audio.FormatS16, Channels: 2, Rate: 44100}, 0, 441 * 4},
		{"u8 mono", audio.StreamFormat{Format: audio.FormatU8, Channels: 1, Rate: 8000}, 0x80, 80},
		{"f32 stereo", audio.StreamFormat{Format: audio.FormatF32, Channels: 2, Rate: 48000}, 0, 480 * 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			cfg.Output = tt.output
			r := newTestRegistry(t, cfg)

			// Stale content in dst must be overwritten.
			dst := bytes.Repeat([]byte{0x55}, 16)
			out := r.MixAll(10*time.Millisecond, dst)

			if len(out) != tt.size {
				t.Fatalf("len = %d, want %d", len(out), tt.size)
			}
			for i, v := range out {
				if v != tt.silence {
					t.Fatalf("byte %d = %#x, want %#x", i, v, tt.silence)
				}
			}
		})
	}
}

func TestRegistry_MixAllNoDrift(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, testConfig())
	frameBytes := r.Output().FrameBytes()

	var period []byte
	total := 0
	// 7ms at 44.1kHz is 308.7 frames.
	for range 1000 {
		period = r.MixAll(7*time.Millisecond, period)
		total += len(period) / frameBytes
	}

	if want := 44100 * 7; total < want-1 || total > want+1 {
		t.Errorf("mixed %d frames over 7s, want %d", total, want)
	}
}

func TestRegistry_MixAllReusesDst(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, testConfig())

	first := r.MixAll(10*time.Millisecond, nil)
	second := r.MixAll(10*time.Millisecond, first)

	if &first[0] != &second[0] {
		t.Error("MixAll should reuse a dst with enough capacity")
	}
}

func TestRegistry_MixSumsSources(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, testConfig())
	playStatic(t, r, loadS16Mono(t, r, 44100, constant(441, 1000)...))
	playStatic(t, r, loadS16Mono(t, r, 44100, constant(441, 2000)...))

	out := r.MixAll(10*time.Millisecond, nil)

	if len(out) != 441*4 {
		t.Fatalf("len = %d, want %d", len(out), 441*4)
	}
	for i := range 441 * 2 {
		if got := audiotest.ReadS16(out, i); got != 3000 {
			t.Fatalf("sample %d = %d, want 3000", i, got)
		}
	}
}

func TestRegistry_MixOrderIsAscending(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, testConfig())
	playStatic(t, r, loadS16Mono(t, r, 44100, constant(441, 30000)...))
	playStatic(t, r, loadS16Mono(t, r, 44100, constant(441, 30000)...))
	playStatic(t, r, loadS16Mono(t, r, 44100, constant(441, -30000)...))

	out := r.MixAll(10*time.Millisecond, nil)

	// 30000 + 30000 clips at 32767 before -30000 is added.
	if got := audiotest.ReadS16(out, 0); got != 2767 {
		t.Errorf("sample = %d, want 2767", got)
	}

	snap := r.Snapshot()
	if snap.Sources[1].Saturations == 0 {
		t.Error("second source should have recorded saturation")
	}
}

func TestRegistry_MixMasterVolume(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, testConfig())
	playStatic(t, r, loadS16Mono(t, r, 44100, constant(441, 1000)...))
	r.SetVolume(0.5)

	out := r.MixAll(10*time.Millisecond, nil)

	if got := audiotest.ReadS16(out, 0); got != 500 {
		t.Errorf("sample = %d, want 500", got)
	}
}

func TestRegistry_MuteAdvancesWithoutMixing(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, testConfig())
	sid := playStatic(t, r, loadS16Mono(t, r, 44100, constant(882, 1000)...))

	r.SetMute(true)
	out := r.MixAll(10*time.Millisecond, nil)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("muted byte %d = %#x, want silence", i, v)
		}
	}
	if pos := position(t, r, sid); pos != 441 {
		t.Errorf("position while muted = %d, want 441", pos)
	}

	r.SetMute(false)
	out = r.MixAll(10*time.Millisecond, out)
	if got := audiotest.ReadS16(out, 0); got != 1000 {
		t.Errorf("sample after unmute = %d, want 1000", got)
	}
}

func TestRegistry_MixFrames(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, testConfig())
	sid := playStatic(t, r, loadS16Mono(t, r, 44100, constant(4410, 7)...))

	out, tick := r.MixFrames(441, nil)

	if tick != 10*time.Millisecond {
		t.Errorf("tick = %v, want 10ms", tick)
	}
	if len(out) != 441*4 {
		t.Errorf("len = %d, want %d", len(out), 441*4)
	}
	if pos := position(t, r, sid); pos != 441 {
		t.Errorf("position = %d, want 441", pos)
	}

	// 1 frame at 44.1kHz is not a whole number of nanoseconds, the remainder
	// is carried.
	var total time.Duration
	for range 44100 {
		_, tick = r.MixFrames(1, out)
		total += tick
	}
	if diff := total - time.Second; diff < -time.Microsecond || diff > time.Microsecond {
		t.Errorf("44100 single frames took %v, want 1s", total)
	}

	if out, tick = r.MixFrames(0, out); len(out) != 0 || tick != 0 {
		t.Errorf("MixFrames(0) = %d bytes, %v", len(out), tick)
	}
}

func TestRegistry_MixDeterministic(t *testing.T) {
	t.Parallel()

	run := func() []byte {
		cfg := testConfig()
		cfg.Output = audio.StreamFormat{Format: audio.FormatS16, Channels: 2, Rate: 48000}
		r := newTestRegistry(t, cfg)

		bid, _ := r.CreateBuffer()
		_ = r.WithBuffer(bid, func(b *audio.Buffer) error {
			b.Format = audio.FormatS16
			b.Channels = 1
			b.Frequency = 22050
			b.Bytes = audiotest.S16(22050, 1, audiotest.Sine(22050, 440))
			b.Update()
			return nil
		})
		sid := playStatic(t, r, bid)
		_ = r.WithSource(sid, func(s *audio.Source) error {
			s.Volume = 0.8
			s.Pitch = 1.1
			return nil
		})

		var all, period []byte
		for range 50 {
			period = r.MixAll(7*time.Millisecond, period)
			all = append(all, period...)
		}
		return all
	}

	if !bytes.Equal(run(), run()) {
		t.Error("two identical runs produced different output")
	}
}

func TestRegistry_WaitForData(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, testConfig())
	short := loadS16Mono(t, r, 44100, constant(100, 1)...)
	more := loadS16Mono(t, r, 44100, constant(1000, 1)...)

	sid, _ := r.CreateSource()
	_ = r.WithSource(sid, func(s *audio.Source) error {
		s.Kind = audio.KindStreamingContinuous
		return nil
	})
	_ = r.QueueBuffers(sid, short)
	_ = r.WithSource(sid, func(s *audio.Source) error { return s.Play() })

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	err := r.WaitForData(ctx, sid, 10*time.Millisecond, time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitForData() error = %v, want DeadlineExceeded", err)
	}

	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = r.QueueBuffers(sid, more)
	}()

	ctx, cancel = context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()

	if err := r.WaitForData(ctx, sid, 10*time.Millisecond, time.Millisecond); err != nil {
		t.Errorf("WaitForData() after queueing error: %v", err)
	}

	if err := r.WaitForData(ctx, 99, time.Millisecond, time.Millisecond); !errors.Is(err, ErrUnknownSource) {
		t.Errorf("WaitForData() unknown source error = %v, want ErrUnknownSource", err)
	}
}

func BenchmarkRegistry_MixAll(b *testing.B) {
	r := newTestRegistry(b, testConfig())
	for i := range 8 {
		bid, _ := r.CreateBuffer()
		_ = r.WithBuffer(bid, func(buf *audio.Buffer) error {
			buf.Format = audio.FormatS16
			buf.Channels = 1
			buf.Frequency = 22050 + 1000*i
			buf.Bytes = audiotest.S16(22050, 1, audiotest.Sine(buf.Frequency, 440))
			buf.Update()
			return nil
		})
		sid := playStatic(b, r, bid)
		_ = r.WithSource(sid, func(s *audio.Source) error {
			s.Looping = true
			return nil
		})
	}

	var period []byte
	b.ReportAllocs()
	for b.Loop() {
		period = r.MixAll(DefaultPeriod, period)
	}
}

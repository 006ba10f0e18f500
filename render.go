// SPDX-License-Identifier: EPL-2.0

package detmix

import (
	"fmt"
	"time"

	"github.com/ik5/detmix/audio"
)

// DefaultPeriod is the output period Render uses when given none.
const DefaultPeriod = 10 * time.Millisecond

// Render is a convenience that plays b once, start to end, on a private
// Registry and returns everything mixed in cfg.Output format.
//
// The virtual clock advances one period per mix, so the result is a whole
// number of periods with the last one padded with silence. The same buffer and
// configuration always render to the same bytes.
//
// Example:
//
//	out, err := detmix.Render(buf, detmix.DefaultConfig(), 0)
//	if err != nil {
//	    return err
//	}
//	// out holds 16-bit stereo PCM at 44.1kHz
func Render(b *audio.Buffer, cfg Config, period time.Duration) ([]byte, error) {
	if err := b.Stream().Validate(); err != nil {
		return nil, fmt.Errorf("render buffer %d: %w", b.ID, err)
	}
	if period <= 0 {
		period = DefaultPeriod
	}

	r, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	bid, err := r.CreateBuffer()
	if err != nil {
		return nil, err
	}
	err = r.WithBuffer(bid, func(dst *audio.Buffer) error {
		dst.Format = b.Format
		dst.Channels = b.Channels
		dst.Frequency = b.Frequency
		dst.BlockFrames = b.BlockFrames
		dst.Bytes = b.Bytes
		dst.Update()
		if !dst.CheckSize() {
			return fmt.Errorf("render buffer %d of %d bytes: %w", b.ID, len(b.Bytes), audio.ErrInvalidDstSize)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sid, err := r.CreateSource()
	if err != nil {
		return nil, err
	}
	if err := r.SetBuffer(sid, bid); err != nil {
		return nil, err
	}
	if err := r.WithSource(sid, func(s *audio.Source) error { return s.Play() }); err != nil {
		return nil, err
	}

	// Pre-allocate for the expected length plus one period.
	seconds := float64(b.FrameCount())/float64(b.Frequency) + period.Seconds()
	out := make([]byte, 0, int(seconds*float64(r.cfg.Output.Rate))*r.cfg.Output.FrameBytes())

	var chunk []byte
	for {
		chunk = r.MixAll(period, chunk)
		out = append(out, chunk...)

		playing := false
		err := r.WithSource(sid, func(s *audio.Source) error {
			playing = s.State() == audio.StatePlaying
			return nil
		})
		if err != nil {
			return nil, err
		}
		if !playing {
			break
		}
	}

	return out, nil
}

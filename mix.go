// SPDX-License-Identifier: EPL-2.0

package detmix

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/ik5/detmix/audio"
)

// MixAll mixes every source over tick into one output period. The period
// length in frames comes from tick with the remainder carried between calls.
// The period is written to dst, grown as needed, and returned.
func (r *Registry) MixAll(tick time.Duration, dst []byte) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := audio.TicksToFrames(tick, r.cfg.Output.Rate, &r.frac)
	return r.mixPeriod(tick, frames, dst)
}

// MixFrames mixes exactly frames output frames, advancing the sources by the
// matching virtual time. It returns the period and that time.
func (r *Registry) MixFrames(frames int, dst []byte) ([]byte, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tick := audio.FramesToTicks(frames, r.cfg.Output.Rate, &r.tickFrac)
	return r.mixPeriod(tick, max(0, frames), dst), tick
}

func (r *Registry) mixPeriod(tick time.Duration, frames int, dst []byte) []byte {
	size := frames * r.cfg.Output.FrameBytes()
	dst = slices.Grow(dst[:0], size)[:size]

	silence := r.cfg.Output.Format.SilenceByte()
	for i := range dst {
		dst[i] = silence
	}

	for _, id := range r.order {
		s := r.sources[id]
		if r.muted {
			s.Advance(tick)
			continue
		}
		s.Mix(tick, dst, r.cfg.Output, r.volume)
	}

	if r.logger.Enabled(context.Background(), slog.LevelDebug) {
		r.logger.Debug("period mixed", "tick", tick, "frames", frames, "sources", len(r.order), "muted", r.muted)
	}

	return dst
}

// WaitForData polls, every interval, until playing tick more on the source
// would not run out of queued data. The lock is released between polls.
func (r *Registry) WaitForData(ctx context.Context, id int, tick, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var ends bool
		err := r.WithSource(id, func(s *audio.Source) error {
			ends = s.WillEnd(tick)
			return nil
		})
		if err != nil {
			return err
		}
		if !ends {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("wait for data on source %d: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

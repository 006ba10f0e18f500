// SPDX-License-Identifier: EPL-2.0

package detmix_test

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/detmix"
	"github.com/ik5/detmix/audio"
	"github.com/ik5/detmix/formats/wav"
)

func quietConfig() detmix.Config {
	cfg := detmix.DefaultConfig()
	cfg.Logger = slog.New(slog.DiscardHandler)
	return cfg
}

// Example_basicUsage loads a WAV file and mixes it period by period.
func Example_basicUsage() {
	// A tenth of a second of 16-bit mono at 8kHz.
	file := new(bytes.Buffer)
	_ = wav.WritePCM(file, audio.StreamFormat{Format: audio.FormatS16, Channels: 1, Rate: 8000}, make([]byte, 2*800))

	r, err := detmix.New(quietConfig())
	if err != nil {
		fmt.Printf("new registry: %v\n", err)
		return
	}
	defer r.Close()

	bid, _ := r.CreateBuffer()
	if err := r.WithBuffer(bid, func(b *audio.Buffer) error { return wav.Loader{}.Load(file, b) }); err != nil {
		fmt.Printf("load: %v\n", err)
		return
	}

	sid, _ := r.CreateSource()
	_ = r.SetBuffer(sid, bid)
	_ = r.WithSource(sid, func(s *audio.Source) error { return s.Play() })

	var period []byte
	periods := 0
	for {
		period = r.MixAll(10*time.Millisecond, period)
		periods++

		var state audio.State
		_ = r.WithSource(sid, func(s *audio.Source) error { state = s.State(); return nil })
		if state != audio.StatePlaying {
			break
		}
	}

	fmt.Printf("Mixed %d periods of %d bytes\n", periods, len(period))
	// Output: Mixed 11 periods of 1764 bytes
}

// Example_render converts a buffer to 8kHz mono in one call.
func Example_render() {
	buf := &audio.Buffer{
		Format:    audio.FormatS16,
		Channels:  2,
		Frequency: 44100,
		Bytes:     make([]byte, 4*44100),
	}
	buf.Update()

	cfg := quietConfig()
	cfg.Output = audio.StreamFormat{Format: audio.FormatS16, Channels: 1, Rate: 8000}

	out, err := detmix.Render(buf, cfg, 0)
	if err != nil {
		fmt.Printf("render: %v\n", err)
		return
	}

	fmt.Printf("Rendered %d frames\n", len(out)/cfg.Output.FrameBytes())
	// Output: Rendered 8080 frames
}

// Example_mixFrames drives the mixer by frame count, as a device callback would.
func Example_mixFrames() {
	r, _ := detmix.New(quietConfig())
	defer r.Close()

	period, tick := r.MixFrames(512, nil)

	fmt.Printf("%d bytes covering %v\n", len(period), tick)
	// Output: 2048 bytes covering 11.609977ms
}

// Example_snapshot inspects the registry.
func Example_snapshot() {
	r, _ := detmix.New(quietConfig())
	defer r.Close()

	_, _ = r.CreateBuffer()
	sid, _ := r.CreateSource()
	_ = r.WithSource(sid, func(s *audio.Source) error {
		s.Looping = true
		return nil
	})

	snap := r.Snapshot()
	fmt.Printf("buffers: %d, sources: %d\n", len(snap.Buffers), len(snap.Sources))
	fmt.Printf("source %d: %v, looping %v\n", snap.Sources[0].ID, snap.Sources[0].State, snap.Sources[0].Looping)
	// Output:
	// buffers: 1, sources: 1
	// source 1: initial, looping true
}

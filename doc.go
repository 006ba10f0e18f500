// SPDX-License-Identifier: EPL-2.0

// Package detmix is a deterministic software audio mixer.
//
// A Registry owns buffers and sources, addressed by integer handles, and mixes
// every playing source into one output period each time MixAll is called. Time
// is virtual: the caller decides how long a period lasts, so the same calls
// always produce the same bytes, independent of wall clock or audio hardware.
//
// # Quick Start
//
//	r, _ := detmix.New(detmix.DefaultConfig())
//	defer r.Close()
//
//	bid, _ := r.CreateBuffer()
//	_ = r.WithBuffer(bid, func(b *audio.Buffer) error {
//	    return wav.Loader{}.Load(file, b)
//	})
//
//	sid, _ := r.CreateSource()
//	_ = r.SetBuffer(sid, bid)
//	_ = r.WithSource(sid, func(s *audio.Source) error { return s.Play() })
//
//	var period []byte
//	for range 100 {
//	    period = r.MixAll(10*time.Millisecond, period)
//	    // hand period to a device, a file or a network peer
//	}
//
// # Rendering
//
// Render plays a single buffer to its end and returns the whole mix, a quick
// way to convert a file into the output format:
//
//	out, _ := detmix.Render(buf, cfg, 0)
//
// # Formats
//
// Loaders fill an audio.Buffer from an encoded stream:
//   - WAV (PCM 8/16/24/32-bit, IEEE float, MS-ADPCM) via formats/wav
//   - AIFF via formats/aiff
//   - FLAC via formats/flac
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// formats/wav also has a Sink writing mixed periods to a WAV file.
//
// # Configuration
//
// Config sets the output format, master volume, handle limits, the resampler
// backend and the logger. DefaultConfig gives 16-bit stereo at 44.1kHz with the
// native linear resampler. Zero fields of a Config are filled with those
// defaults by New.
//
// # Concurrency
//
// The Registry serializes every call through one mutex, it is safe to create
// sources from one goroutine while another mixes. WithBuffer and WithSource
// callbacks run under that mutex and must not call back into the Registry.
//
// See the audio subpackage for the mixing core itself.
package detmix

// SPDX-License-Identifier: EPL-2.0

// Package audio holds the deterministic mixing core: sample buffers, playback
// sources and the resamplers that convert between stream formats.
//
// Everything here advances on virtual time. A caller hands Mix a tick (the
// elapsed time.Duration of one output period) and the package turns it into a
// whole number of frames, carrying the remainder between calls so long runs
// never drift. The same ticks always produce the same output bytes.
//
// # Buffers
//
// A Buffer stores raw samples in one of the SampleFormat layouts (U8, S16, S32,
// F32, F64 or MS-ADPCM) together with its channel count, frequency and an
// optional loop region:
//
//	buf := &audio.Buffer{Format: audio.FormatS16, Channels: 2, Frequency: 44100, Bytes: pcm}
//	buf.Update()
//
// Update must run after any field changes. MS-ADPCM data is decoded on demand,
// block by block, when frames are read.
//
// # Sources
//
// A Source plays a queue of buffers. Its Kind decides what happens at the end
// of the queue:
//   - KindStatic and KindStreaming stop and rewind
//   - KindStreamingContinuous holds its last position and waits for more buffers
//   - KindCallback calls Refill to obtain more data for its single buffer
//
// A looping static source repeats the loop region of its buffer, a looping
// streaming source wraps around the queue.
//
//	src := audio.NewSource(1, nil, logger)
//	src.Kind = audio.KindStatic
//	src.SetBuffer(buf)
//	_ = src.Play()
//	frames := src.Mix(10*time.Millisecond, out, outFmt, 1)
//
// Mix adds into out, saturating to the output format range, so several sources
// can be mixed into the same period in turn.
//
// # Resamplers
//
// Sources convert through a Resampler created by a ResamplerFactory. The native
// backend (NewNativeResampler) uses exact rational stepping with linear or cubic
// interpolation. The audio/soxr package offers a polyphase backend. 8 and 16
// bit mono or stereo sources can instead use the LegacyMixer by setting
// Source.Legacy.
//
// # Loaders
//
// File decoding lives in the formats packages. They expose Loader values that
// can be collected in a LoaderRegistry keyed by format name.
//
// # Logging
//
// Sources log through the *slog.Logger given to NewSource: per period traversal
// and saturation at debug level, recoverable problems (a resampler that cannot
// be initialized, a refill callback returning nothing) at warn level.
package audio

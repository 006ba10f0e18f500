// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ik5/detmix"
	"github.com/ik5/detmix/audio"
	"github.com/ik5/detmix/formats/aiff"
	"github.com/ik5/detmix/formats/wav"
)

// Example loads an AIFF file into a buffer.
func Example() {
	f, err := os.Open("input.aiff")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var buf audio.Buffer
	if err := (aiff.Loader{}).Load(f, &buf); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Loaded AIFF: %v, %d Hz, %d channels, %d frames\n",
		buf.Format, buf.Frequency, buf.Channels, buf.FrameCount())
}

// Example_convertToWav renders an AIFF file to an 8kHz mono WAV.
func Example_convertToWav() {
	in, err := os.Open("input.aiff")
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()

	var buf audio.Buffer
	if err := (aiff.Loader{}).Load(in, &buf); err != nil {
		log.Fatal(err)
	}

	cfg := detmix.DefaultConfig()
	cfg.Output = audio.StreamFormat{Format: audio.FormatS16, Channels: 1, Rate: 8000}
	pcm, err := detmix.Render(&buf, cfg, 0)
	if err != nil {
		log.Fatal(err)
	}

	out, err := os.Create("output.wav")
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()

	if err := wav.WritePCM(out, cfg.Output, pcm); err != nil {
		log.Fatal(err)
	}
}

// Example_errorHandling shows the error for foreign data.
func Example_errorHandling() {
	var buf audio.Buffer
	err := (aiff.Loader{}).Load(bytes.NewReader([]byte("RIFF")), &buf)

	fmt.Println(errors.Is(err, aiff.ErrNotAiffFile))
	// Output: true
}

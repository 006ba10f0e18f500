// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
)

// ErrUnknownLoader is returned by LoaderRegistry.Load for an unregistered format key.
var ErrUnknownLoader = errors.New("no loader registered for format")

// Loader decodes a file into a Buffer, setting its format, channels, frequency
// and bytes and calling Update.
type Loader interface {
	Load(r io.Reader, b *Buffer) error
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(r io.Reader, b *Buffer) error

func (f LoaderFunc) Load(r io.Reader, b *Buffer) error { return f(r, b) }

// LoaderRegistry maps format keys (e.g. "wav", "mp3", "ogg") to loaders.
type LoaderRegistry struct {
	loaders map[string]Loader

	mtx *sync.Mutex
}

func NewLoaderRegistry() *LoaderRegistry {
	return &LoaderRegistry{
		loaders: make(map[string]Loader),
		mtx:     &sync.Mutex{},
	}
}

func (r *LoaderRegistry) Register(format string, l Loader) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.loaders[format] = l
}

func (r *LoaderRegistry) Get(format string) (Loader, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	l, ok := r.loaders[format]
	return l, ok
}

// Formats lists the registered keys in sorted order.
func (r *LoaderRegistry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	keys := make([]string, 0, len(r.loaders))
	for k := range r.loaders {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Load decodes r into b with the loader registered for format.
func (r *LoaderRegistry) Load(format string, rd io.Reader, b *Buffer) error {
	l, ok := r.Get(format)
	if !ok {
		return fmt.Errorf("%q: %w", format, ErrUnknownLoader)
	}

	if err := l.Load(rd, b); err != nil {
		return fmt.Errorf("load %s: %w", format, err)
	}
	return nil
}

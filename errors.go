// SPDX-License-Identifier: EPL-2.0

package detmix

import "errors"

var (
	// ErrTooManyBuffers is returned by CreateBuffer once MaxBuffers buffers exist.
	ErrTooManyBuffers = errors.New("too many buffers")

	// ErrTooManySources is returned by CreateSource once MaxSources sources exist.
	ErrTooManySources = errors.New("too many sources")

	ErrUnknownBuffer = errors.New("unknown buffer id")
	ErrUnknownSource = errors.New("unknown source id")

	// ErrBufferInUse is returned when deleting a buffer still queued on a source.
	ErrBufferInUse = errors.New("buffer is queued on a source")
)

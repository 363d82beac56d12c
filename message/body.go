package message

import (
	"bytes"
	"errors"
	"io"
	"strings"
)

// ErrNotSeekable is returned by [Body.Rewind] when the underlying
// reader cannot return to its start.
var ErrNotSeekable = errors.New("body is not seekable")

// Body is a request or response payload stream. It is a narrow stream
// contract: just enough position reporting and rewind capability to
// replay payloads across redirect and retry hops.
type Body interface {
	io.ReadCloser

	// Tell reports the current read offset from the start of the
	// stream.
	Tell() int64
	// Seekable reports whether Rewind can restore the stream to its
	// start.
	Seekable() bool
	// Rewind restores the stream to its start so it can be read
	// again. It fails with [ErrNotSeekable] when the stream cannot
	// seek.
	Rewind() error
}

// NewBody wraps r as a [Body]. The result is seekable when r
// implements [io.Seeker], and closing it closes r when r implements
// [io.Closer]. A nil reader yields a nil Body. When r is already a
// Body it is returned unchanged.
func NewBody(r io.Reader) Body {
	if r == nil {
		return nil
	}
	if b, ok := r.(Body); ok {
		return b
	}

	seeker, _ := r.(io.Seeker)

	return &bodyReader{r: r, seeker: seeker}
}

// BytesBody returns a seekable [Body] reading from b.
func BytesBody(b []byte) Body {
	return NewBody(bytes.NewReader(b))
}

// StringBody returns a seekable [Body] reading from s.
func StringBody(s string) Body {
	return NewBody(strings.NewReader(s))
}

type bodyReader struct {
	r      io.Reader
	seeker io.Seeker
	offset int64
}

func (b *bodyReader) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	b.offset += int64(n)

	return n, err
}

func (b *bodyReader) Tell() int64 {
	return b.offset
}

func (b *bodyReader) Seekable() bool {
	return b.seeker != nil
}

func (b *bodyReader) Rewind() error {
	if b.seeker == nil {
		return ErrNotSeekable
	}

	if _, err := b.seeker.Seek(0, io.SeekStart); err != nil {
		return err
	}
	b.offset = 0

	return nil
}

func (b *bodyReader) Close() error {
	if c, ok := b.r.(io.Closer); ok {
		return c.Close()
	}

	return nil
}

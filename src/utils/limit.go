package utils

import (
	"errors"
	"fmt"
	"io"
)

// ErrInputTooLarge marks a reader that was cut off by MaxBytesReader.
var ErrInputTooLarge = errors.New("input exceeds size limit")

// MaxBytesReader wraps r so that reading past limit bytes fails with
// ErrInputTooLarge instead of silently truncating. An io.LimitReader
// would hand a consumer a well-formed prefix of an oversized file; this
// reader makes the overflow an error the consumer cannot miss.
func MaxBytesReader(r io.Reader, limit int64) io.Reader {
	// One sentinel byte past the limit distinguishes an exactly-limit
	// input from an oversized one.
	return &maxBytesReader{r: r, remaining: limit + 1, limit: limit}
}

type maxBytesReader struct {
	r         io.Reader
	remaining int64
	limit     int64
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.remaining <= 0 {
		return 0, fmt.Errorf("read past %d bytes: %w", m.limit, ErrInputTooLarge)
	}
	if int64(len(p)) > m.remaining {
		p = p[:m.remaining]
	}
	n, err := m.r.Read(p)
	m.remaining -= int64(n)
	return n, err
}

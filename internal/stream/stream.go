// Package stream implements the response streamer (component D of
// SPEC_FULL.md): it copies the upstream byte stream to the client verbatim
// while capturing at most MAX_OBJECT_SIZE bytes for a possible cache
// insertion, following the overflow discipline of spec.md §4.3. The capture
// buffer's grow-then-latch-overflow shape mirrors the teacher's
// pkg/buffer.Buffer (accumulate until a threshold, then stop retaining
// data while the caller keeps consuming), redesigned around a boolean
// latch instead of disk spilling since MAX_OBJECT_SIZE is small and a
// dropped capture is simply not cached.
package stream

import (
	"io"

	"github.com/WhileEndless/httpcacheproxy/internal/constants"
	"github.com/WhileEndless/httpcacheproxy/internal/lineio"
	"github.com/WhileEndless/httpcacheproxy/internal/proxyerr"
)

// captureBuffer accumulates the response prefix for a possible cache
// insert, latching overflow (and discarding what was captured) once an
// append would bring buf_size to MAX_OBJECT_SIZE or beyond. buf_size starts
// at 1 to reserve a byte for a terminator convention, per spec.md §4.3.
type captureBuffer struct {
	buf      []byte
	bufSize  int
	overflow bool
}

func newCaptureBuffer() *captureBuffer {
	return &captureBuffer{bufSize: 1}
}

func (c *captureBuffer) append(b []byte) {
	if c.overflow || len(b) == 0 {
		return
	}
	if c.bufSize+len(b) >= constants.MaxObjectSize {
		c.overflow = true
		c.buf = nil
		return
	}
	c.buf = append(c.buf, b...)
	c.bufSize += len(b)
}

// Response reads upstream (headers, then body) through upstream, writing
// every byte to client unchanged. It returns the captured prefix and
// whether it overflowed MAX_OBJECT_SIZE; the caller inserts into the cache
// only when overflowed is false and err is nil (spec.md §4.3 steps 4-5).
func Response(client io.Writer, upstream *lineio.Reader) (captured []byte, overflowed bool, err error) {
	cb := newCaptureBuffer()

	for {
		line, rerr := upstream.ReadLine()
		if len(line) > 0 {
			if _, werr := io.WriteString(client, line); werr != nil {
				return nil, false, proxyerr.NewClientWriteError("write-header", werr)
			}
			cb.append([]byte(line))
		}
		if line == "\r\n" || line == "\n" {
			break
		}
		if rerr != nil {
			return nil, false, proxyerr.NewStreamError("read-header", rerr)
		}
	}

	buf := make([]byte, constants.ReadBlockSize)
	for {
		n, rerr := upstream.ReadBlock(buf)
		if n > 0 {
			if _, werr := client.Write(buf[:n]); werr != nil {
				return nil, false, proxyerr.NewClientWriteError("write-body", werr)
			}
			cb.append(buf[:n])
		}
		if rerr != nil {
			if rerr == io.EOF {
				break
			}
			return nil, false, proxyerr.NewStreamError("read-body", rerr)
		}
	}

	return cb.buf, cb.overflow, nil
}

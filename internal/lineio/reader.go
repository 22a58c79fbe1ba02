// Package lineio is the line-buffered socket reader (component A of
// SPEC_FULL.md): it reads a request/response byte stream as CRLF-terminated
// lines and length-bounded blocks, in the style of the teacher's own
// bufio.NewReader+ReadString('\n') usage (pkg/transport/transport.go).
package lineio

import (
	"bufio"
	"io"

	"github.com/WhileEndless/httpcacheproxy/internal/constants"
)

// Reader wraps an io.Reader (typically a net.Conn) with a bufio.Reader
// bounded to constants.MaxLine per line, matching the original proxy's
// MAXLINE discipline.
type Reader struct {
	br *bufio.Reader
}

// New wraps r for line/block reads.
func New(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, constants.MaxLine)}
}

// LineTooLongError is returned when a line, including its terminating '\n',
// is constants.MaxLine bytes or longer.
type LineTooLongError struct{}

func (LineTooLongError) Error() string { return "line length reaches MAXLINE" }

// ReadLine reads one line up to and including its terminating '\n'. The
// returned string retains any trailing "\r\n" so callers can relay it to a
// peer byte-for-byte. io.EOF is returned verbatim when the stream ends
// before any bytes are read; a partial line followed by EOF is returned as
// io.ErrUnexpectedEOF so callers can distinguish "no more requests" from
// "request truncated mid-line".
func (r *Reader) ReadLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return line, io.ErrUnexpectedEOF
		}
		return line, err
	}
	if len(line) >= constants.MaxLine {
		return line, LineTooLongError{}
	}
	return line, nil
}

// ReadBlock reads up to len(buf) bytes in a single read call, returning
// io.EOF once the underlying connection is drained. Used by the response
// streamer (component D) to relay the response body after headers.
func (r *Reader) ReadBlock(buf []byte) (int, error) {
	return r.br.Read(buf)
}

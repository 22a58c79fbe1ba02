package errpage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite_HeaderOrderAndLength(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, 404, "Server name is empty.", "Parser Error"))

	out := buf.String()
	lines := strings.SplitN(out, "\r\n", 5)
	require.Len(t, lines, 5)
	assert.Equal(t, "HTTP/1.0 404 Server name is empty.", lines[0])
	assert.Equal(t, "Content-type: text/html", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Content-length: "))
	assert.True(t, strings.HasPrefix(lines[4], "<html>"))

	contentLen := strings.TrimPrefix(lines[2], "Content-length: ")
	assert.Equal(t, contentLen, itoa(len(lines[4])))
}

func TestWrite_StatusLineCarriesTheRealDetailNotAPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, 404, "Missing HTTP/1.x request.", "Parser Error"))

	out := buf.String()
	assert.Contains(t, out, "HTTP/1.0 404 Missing HTTP/1.x request.")
	assert.Contains(t, out, "404: Missing HTTP/1.x request.")
	assert.Contains(t, out, "<p>: Parser Error")
}

func TestBadRequest_UsesParserErrorCause(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BadRequest(&buf, "Missing HTTP/1.x request."))
	assert.Contains(t, buf.String(), "HTTP/1.0 404 Missing HTTP/1.x request.")
	assert.Contains(t, buf.String(), "<p>: Parser Error")
}

func TestUpstreamUnreachable_Is404WithServerConnectionErrorCause(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, UpstreamUnreachable(&buf, "Error opening connection to server."))
	assert.Contains(t, buf.String(), "HTTP/1.0 404 Error opening connection to server.")
	assert.Contains(t, buf.String(), "<p>: Server Connection Error")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}

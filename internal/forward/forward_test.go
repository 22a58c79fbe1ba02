package forward

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhileEndless/httpcacheproxy/internal/lineio"
	"github.com/WhileEndless/httpcacheproxy/internal/request"
)

func TestRequest_FiltersHopByHopAndForwardsClientHostOnce(t *testing.T) {
	var upstream bytes.Buffer
	client := lineio.New(strings.NewReader("User-Agent: curl/8\r\nX-Trace: 1\r\nHost: ex.com\r\n\r\n"))

	req := &request.Request{Host: "ex.com", Port: 80, Path: "/"}
	require.NoError(t, Request(&upstream, req, client))

	got := upstream.String()
	assert.Contains(t, got, "GET / HTTP/1.0\r\n")
	assert.Contains(t, got, userAgentHdr)
	assert.Contains(t, got, "X-Trace: 1\r\n")
	assert.Contains(t, got, "Host: ex.com\r\n")
	assert.Equal(t, 1, strings.Count(got, "Host: ex.com\r\n"), "host header must not be duplicated")
	assert.False(t, strings.Contains(got, "User-Agent: curl/8"))
}

func TestRequest_SynthesizesHostWhenAbsent(t *testing.T) {
	var upstream bytes.Buffer
	client := lineio.New(strings.NewReader("X-Trace: 1\r\n\r\n"))

	req := &request.Request{Host: "example.com", Port: 8080, Path: "/a"}
	require.NoError(t, Request(&upstream, req, client))

	got := upstream.String()
	assert.Contains(t, got, "GET /a HTTP/1.0\r\n")
	assert.Contains(t, got, "Host: example.com\r\n")
}

func TestRequest_StopsAtEOFWithoutBlankLine(t *testing.T) {
	var upstream bytes.Buffer
	client := lineio.New(strings.NewReader("X-Trace: 1\r\n"))

	req := &request.Request{Host: "example.com", Port: 80, Path: "/"}
	require.NoError(t, Request(&upstream, req, client))

	got := upstream.String()
	assert.Contains(t, got, "X-Trace: 1\r\n")
	assert.Contains(t, got, "Host: example.com\r\n")
}

// Package forward builds and emits the sanitized upstream request
// (component C of SPEC_FULL.md), translating the header-rewrite loop of
// original_source/proxy.c's handle_client_connection into Go.
package forward

import (
	"fmt"
	"io"

	"github.com/WhileEndless/httpcacheproxy/internal/lineio"
	"github.com/WhileEndless/httpcacheproxy/internal/request"
)

const (
	userAgentHdr       = "User-Agent: Mozilla/5.0 (X11; Linux x86_64; rv:10.0.3) Gecko/20120305 Firefox/10.0.3\r\n"
	acceptHdr          = "Accept: text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8\r\n"
	acceptEncodingHdr  = "Accept-Encoding: gzip, deflate\r\n"
	connectionHdr      = "Connection: close\r\n"
	proxyConnectionHdr = "Proxy-Connection: close\r\n"

	hostTag           = "Host: "
	userAgentTag      = "User-Agent: "
	acceptTag         = "Accept: "
	acceptEncodingTag = "Accept-Encoding: "
	connectionTag     = "Connection: "
	proxyConnTag      = "Proxy-Connection: "
)

// isRewritten reports whether line carries one of the headers the proxy
// always supplies itself, so the client's copy must be dropped.
func isRewritten(line string) bool {
	for _, tag := range [...]string{userAgentTag, acceptTag, acceptEncodingTag, connectionTag, proxyConnTag} {
		if len(line) >= len(tag) && line[:len(tag)] == tag {
			return true
		}
	}
	return false
}

func isHost(line string) bool {
	return len(line) >= len(hostTag) && line[:len(hostTag)] == hostTag
}

// Request writes the sanitized upstream request line, the proxy's fixed
// headers, the filtered client headers read from clientHeaders, and the
// terminating blank line, in the exact order spec.md §4.2 specifies.
func Request(upstream io.Writer, req *request.Request, clientHeaders *lineio.Reader) error {
	if _, err := io.WriteString(upstream, fmt.Sprintf("GET %s HTTP/1.0\r\n", req.Path)); err != nil {
		return err
	}
	for _, hdr := range [...]string{userAgentHdr, acceptHdr, acceptEncodingHdr, connectionHdr, proxyConnectionHdr} {
		if _, err := io.WriteString(upstream, hdr); err != nil {
			return err
		}
	}

	hostSeen := false
	for {
		line, err := clientHeaders.ReadLine()
		if err != nil {
			// EOF (or a truncated trailing line) ends the header relay just
			// as it would the blank-line terminator; whatever was already
			// written upstream stands.
			break
		}
		if line == "\r\n" || line == "\n" {
			break
		}
		if isRewritten(line) {
			continue
		}
		if isHost(line) {
			hostSeen = true
		}
		if _, err := io.WriteString(upstream, line); err != nil {
			return err
		}
	}

	if !hostSeen {
		if _, err := io.WriteString(upstream, hostTag+req.Host+"\r\n"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(upstream, "\r\n")
	return err
}

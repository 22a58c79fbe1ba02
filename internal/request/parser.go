// Package request implements the HTTP/1.0 absolute-URI request-line parser
// (component B of SPEC_FULL.md). It is a direct, byte-index translation of
// the original parse_get_request from original_source/proxy.c, redesigned
// to return explicit (*Request, error) pairs instead of writing into
// caller-supplied buffers and signalling failure with a sentinel int.
package request

import (
	"strconv"

	"github.com/WhileEndless/httpcacheproxy/internal/constants"
	"github.com/WhileEndless/httpcacheproxy/internal/proxyerr"
)

// Request is the transient per-connection value parsed from a client's
// request line: method is always GET (anything else is rejected earlier).
type Request struct {
	Host string
	Port int
	Path string
}

const (
	prefixHTTP  = "GET http://"
	prefixHTTPS = "GET https://"
)

// HasRecognizedPrefix reports whether line begins with one of the two
// absolute-URI prefixes this proxy understands. The connection handler
// (component F) uses this to short-circuit unsupported methods before
// attempting a full parse.
func HasRecognizedPrefix(line string) bool {
	return hasPrefix(line, prefixHTTP) || hasPrefix(line, prefixHTTPS)
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// ParseRequestLine parses a CRLF-terminated "GET <absolute-URI> HTTP/1.x"
// request line into a Request. It returns a *proxyerr.Error with KindParse
// on every malformed-input edge case enumerated in spec.md §4.1.
func ParseRequestLine(line string) (*Request, error) {
	var rest string
	switch {
	case hasPrefix(line, prefixHTTP):
		rest = line[len(prefixHTTP):]
	case hasPrefix(line, prefixHTTPS):
		rest = line[len(prefixHTTPS):]
	default:
		return nil, proxyerr.NewParseError("request-line", "Invalid command or malformed http://")
	}

	i := 0
	n := len(rest)

	// host := 1*( any byte minus ':' '/' ' ' )
	hostStart := i
	for i < n && rest[i] != ':' && rest[i] != '/' && rest[i] != ' ' {
		i++
	}
	host := rest[hostStart:i]
	if host == "" {
		return nil, proxyerr.NewParseError("parse-host", "Server name is empty.")
	}
	if i == n {
		return nil, proxyerr.NewParseError("parse-host", "Missing HTTP/1.x request.")
	}

	port := constants.DefaultHTTPPort
	if rest[i] == ':' {
		i++
		portStart := i
		for i < n && rest[i] != '/' && rest[i] != ' ' {
			if rest[i] < '0' || rest[i] > '9' {
				return nil, proxyerr.NewParseError("parse-port", "Non-numeric character in port.")
			}
			i++
		}
		if i == portStart {
			return nil, proxyerr.NewParseError("parse-port", "No port specified after :")
		}
		if i == n {
			return nil, proxyerr.NewParseError("parse-port", "Missing HTTP/1.x request.")
		}
		portNum, err := strconv.Atoi(rest[portStart:i])
		if err != nil {
			// Unreachable given the digit-only scan above, but kept as a
			// defensive translation of atoi's behavior in the original.
			return nil, proxyerr.NewParseError("parse-port", "Non-numeric character in port.")
		}
		port = portNum
	}

	path := "/"
	if i < n && rest[i] == '/' {
		pathStart := i
		for i < n && rest[i] != ' ' {
			i++
		}
		path = rest[pathStart:i]
		if i == n {
			return nil, proxyerr.NewParseError("parse-path", "Missing HTTP/1.x request.")
		}
	}

	return &Request{Host: host, Port: port, Path: path}, nil
}

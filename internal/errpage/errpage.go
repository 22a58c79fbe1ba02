// Package errpage renders the proxy's own HTML error responses (component G
// of SPEC_FULL.md), ported from original_source/proxy.c's clienterror: a
// status line, a Content-type header, a Content-length header, a blank line,
// then an HTML body, in that exact order and with no other headers.
package errpage

import (
	"fmt"
	"io"
)

// Write renders and writes an HTTP/1.0 error response to w, mirroring
// clienterror(fd, cause, errnum, shortmsg, longmsg) field for field:
// shortmsg (the actual failure detail, e.g. "Server name is empty.") is the
// status line's reason phrase and the first body line, exactly as
// clienterror puts it on both; cause (the failure category, e.g.
// "Parser Error") only appears in the body's second line. longmsg is always
// empty in the original call sites, so it is not a parameter here.
func Write(w io.Writer, code int, shortmsg, cause string) error {
	body := fmt.Sprintf(
		"<html><title>Proxy Error</title>"+
			"<body bgcolor=\"ffffff\">\r\n"+
			"%d: %s\r\n"+
			"<p>: %s\r\n"+
			"<hr><em>The Go caching proxy</em>\r\n",
		code, shortmsg, cause,
	)

	if _, err := fmt.Fprintf(w, "HTTP/1.0 %d %s\r\n", code, shortmsg); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "Content-type: text/html\r\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Content-length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err := io.WriteString(w, body)
	return err
}

// BadRequest renders the 404 page for every malformed-request-line case in
// parse_get_request, with detail (e.g. "Server name is empty.") as the
// status line and "Parser Error" as the body's cause line, matching
// original_source/proxy.c's clienterror calls for parse failures.
func BadRequest(w io.Writer, detail string) error {
	return Write(w, 404, detail, "Parser Error")
}

// UpstreamUnreachable renders the 404 page for a failed upstream connection
// attempt (spec.md §4.5 step 5, §7 case 2), matching clienterror's
// "Server Connection Error" cause at original_source/proxy.c:344.
func UpstreamUnreachable(w io.Writer, detail string) error {
	return Write(w, 404, detail, "Server Connection Error")
}

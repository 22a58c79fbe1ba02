package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WhileEndless/httpcacheproxy/internal/proxyerr"
)

func TestParseRequestLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantHost string
		wantPort int
		wantPath string
		wantErr  string
	}{
		{
			name:     "plain host and path",
			line:     "GET http://example.com/ HTTP/1.0\r\n",
			wantHost: "example.com",
			wantPort: 80,
			wantPath: "/",
		},
		{
			name:     "missing path defaults to slash",
			line:     "GET http://example.com HTTP/1.0\r\n",
			wantHost: "example.com",
			wantPort: 80,
			wantPath: "/",
		},
		{
			name:     "explicit port and path",
			line:     "GET http://example.com:8080/a HTTP/1.0\r\n",
			wantHost: "example.com",
			wantPort: 8080,
			wantPath: "/a",
		},
		{
			name:     "https treated as plaintext",
			line:     "GET https://example.com/secure HTTP/1.0\r\n",
			wantHost: "example.com",
			wantPort: 80,
			wantPath: "/secure",
		},
		{
			name:    "empty host",
			line:    "GET http:// HTTP/1.0\r\n",
			wantErr: "Server name is empty.",
		},
		{
			name:    "unrecognized method",
			line:    "POST http://example.com/ HTTP/1.0\r\n",
			wantErr: "Invalid command or malformed http://",
		},
		{
			name:    "non-numeric port",
			line:    "GET http://example.com:8a/ HTTP/1.0\r\n",
			wantErr: "Non-numeric character in port.",
		},
		{
			name:    "colon with no port digits",
			line:    "GET http://example.com:/ HTTP/1.0\r\n",
			wantErr: "No port specified after :",
		},
		{
			name:    "truncated before a terminating space",
			line:    "GET http://example.com",
			wantErr: "Missing HTTP/1.x request.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequestLine(tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				var pe *proxyerr.Error
				require.ErrorAs(t, err, &pe)
				assert.Equal(t, proxyerr.KindParse, pe.Kind)
				assert.Equal(t, tt.wantErr, pe.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, req.Host)
			assert.Equal(t, tt.wantPort, req.Port)
			assert.Equal(t, tt.wantPath, req.Path)
		})
	}
}

func TestHasRecognizedPrefix(t *testing.T) {
	assert.True(t, HasRecognizedPrefix("GET http://example.com/ HTTP/1.0\r\n"))
	assert.True(t, HasRecognizedPrefix("GET https://example.com/ HTTP/1.0\r\n"))
	assert.False(t, HasRecognizedPrefix("POST http://example.com/ HTTP/1.0\r\n"))
	assert.False(t, HasRecognizedPrefix("GET /relative HTTP/1.0\r\n"))
}

package main

import "testing"

func TestParsePort(t *testing.T) {
	cases := []struct {
		name    string
		argv    []string
		want    int
		wantErr bool
	}{
		{"valid", []string{"proxy", "8080"}, 8080, false},
		{"lower bound exclusive", []string{"proxy", "1024"}, 0, true},
		{"upper bound exclusive", []string{"proxy", "65536"}, 0, true},
		{"just above lower bound", []string{"proxy", "1025"}, 1025, false},
		{"just below upper bound", []string{"proxy", "65535"}, 65535, false},
		{"not a number", []string{"proxy", "abc"}, 0, true},
		{"missing arg", []string{"proxy"}, 0, true},
		{"extra arg", []string{"proxy", "8080", "extra"}, 0, true},
		{"negative", []string{"proxy", "-1"}, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parsePort(tc.argv)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got port %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

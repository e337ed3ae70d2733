package ics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransport_TailRangeHeader(t *testing.T) {
	var gotRange, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.Header.Get("Range")
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusPartialContent)
		io.WriteString(w, "END:VCALENDAR\r\n")
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPOptions{})
	status, body, err := tr.Open(context.Background(), srv.URL, 200_000)
	require.NoError(t, err)
	defer body.Close()

	assert.Equal(t, http.StatusPartialContent, status)
	assert.Equal(t, "bytes=-200000", gotRange)
	assert.Equal(t, userAgent, gotUA)

	b, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "END:VCALENDAR\r\n", string(b))
}

func TestHTTPTransport_FullFetchHasNoRangeHeader(t *testing.T) {
	var sawRange bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawRange = r.Header.Get("Range") != ""
		io.WriteString(w, "BEGIN:VCALENDAR\r\n")
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPOptions{})
	status, body, err := tr.Open(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	body.Close()

	assert.Equal(t, http.StatusOK, status)
	assert.False(t, sawRange)
}

func TestHTTPTransport_StatusPassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(HTTPOptions{})
	status, body, err := tr.Open(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	body.Close()

	// The transport reports the raw status; the orchestrator decides.
	assert.Equal(t, http.StatusGone, status)
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://calendar.example.com/private/secret-token/basic.ics",
			"https://calendar.example.com/...(redacted)",
		},
		{
			"https://calendar.example.com",
			"https://calendar.example.com/...(redacted)",
		},
		{
			"not a url",
			"ics://...(redacted)",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, redactURL(tt.in))
	}
}

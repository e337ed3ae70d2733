package ics

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "epdtoday/1.0"

// Transport opens one byte stream over the calendar source. tailBytes > 0
// asks for only the trailing tailBytes of the resource (servers that ignore
// Range simply answer 200 with the full body). The returned status is the
// raw response code; the caller decides which codes are acceptable and owns
// closing the body.
type Transport interface {
	Open(ctx context.Context, url string, tailBytes int64) (status int, body io.ReadCloser, err error)
}

// HTTPOptions configures the HTTP transport.
type HTTPOptions struct {
	// Timeout bounds one request end to end, including the body read.
	// Zero means 15 seconds.
	Timeout time.Duration

	// InsecureTLS disables certificate verification for feeds served with
	// certificates the device cannot validate.
	InsecureTLS bool
}

// HTTPTransport fetches the feed over HTTP(S), following redirects.
type HTTPTransport struct {
	client *http.Client
}

func NewHTTPTransport(opts HTTPOptions) *HTTPTransport {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureTLS {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &HTTPTransport{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: tr,
		},
	}
}

func (t *HTTPTransport) Open(ctx context.Context, url string, tailBytes int64) (int, io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if tailBytes > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=-%d", tailBytes))
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, resp.Body, nil
}

// redactURL hides sensitive parts of a calendar URL for logging purposes.
// Hosted feed URLs routinely carry a secret token in the path or query.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := -1
	for idx := 0; idx+2 < len(u); idx++ {
		if u[idx:idx+3] == "://" {
			i = idx + 3
			break
		}
	}
	if i == -1 {
		return "ics://...(redacted)"
	}

	// Find next slash after host.
	j := i
	for j < len(u) && u[j] != '/' {
		j++
	}

	return u[:j] + redactedSuffix
}

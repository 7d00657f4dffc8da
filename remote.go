package fastimage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AnalyzeRemote fetches an http(s) URL and reads the response body only until
// the format and dimensions are known, then aborts the transfer.
func (a *Analyzer) AnalyzeRemote(ctx context.Context, rawURL string) (*ImageInfo, error) {
	start := time.Now()

	fail := func(kind ErrorKind, transferred uint64, cause error) *Error {
		return newError(kind, rawURL, transferred, cause).since(start)
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fail(KindInvalidLocator, 0, err)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return nil, fail(KindInvalidLocator, 0, fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return nil, fail(KindInvalidLocator, 0, fmt.Errorf("missing host"))
	}
	requested := u.String()

	ctx, cancel := withTimeout(ctx, a.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requested, nil)
	if err != nil {
		return nil, fail(KindInvalidLocator, 0, err)
	}
	req.Header.Set("User-Agent", a.opts.UserAgent)
	req.Header.Set("Accept", "image/*,*/*;q=0.8")
	// Compressed bodies would hide the header bytes
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fail(KindNetwork, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := fail(KindNetwork, 0, fmt.Errorf("unexpected status %s", resp.Status))
		e.StatusCode = resp.StatusCode
		return nil, e
	}

	var size *uint64
	if resp.ContentLength >= 0 {
		n := uint64(resp.ContentLength)
		size = &n
	}

	// Only a redirect changes the location; normalization by url.Parse does not
	var resolved string
	if resp.Request != nil && resp.Request.URL != nil {
		if final := resp.Request.URL.String(); final != requested {
			resolved = final
		}
	}

	sniffer := NewSniffer(a.opts.MaxBufferSize)
	sniffer.OnTerminal(func(State) {
		cancel()
		resp.Body.Close()
	})

	if err := feed(ctx, resp.Body, sniffer, a.opts.ChunkSize); err != nil {
		return nil, fail(KindNetwork, sniffer.Consumed(), err)
	}

	a.logger.Debug("remote sniff finished",
		"locator", rawURL,
		"resolved", resolved,
		"status", resp.StatusCode,
		"state", sniffer.State().String(),
		"transferred", sniffer.Consumed(),
		"content_length", resp.ContentLength,
	)

	return assemble(sniffer, source{
		kind:     SourceRemote,
		locator:  rawURL,
		resolved: resolved,
		size:     size,
	}, start)
}

package fastimage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastimage/internal/fixtures"
)

func serveBytes(data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
	}
}

func TestAnalyzeRemote_FollowsRedirect(t *testing.T) {
	png := fixtures.Pad(fixtures.PNG(10, 20), 5000-len(fixtures.PNG(10, 20)))

	mux := http.NewServeMux()
	mux.HandleFunc("/old.png", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new.png", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new.png", serveBytes(png))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	info, err := New(Options{ChunkSize: 512}).AnalyzeRemote(context.Background(), srv.URL+"/old.png")
	require.NoError(t, err)

	assert.Equal(t, FormatPNG, info.Format)
	assert.Equal(t, uint32(10), info.Width)
	assert.Equal(t, uint32(20), info.Height)
	assert.Equal(t, SourceRemote, info.Source)
	assert.Equal(t, srv.URL+"/old.png", info.Locator)
	assert.Equal(t, srv.URL+"/new.png", info.ResolvedLocator)

	size, ok := info.TotalSize()
	require.True(t, ok)
	assert.Equal(t, uint64(5000), size)
	assert.Greater(t, info.Transferred, uint64(0))
	assert.LessOrEqual(t, info.Transferred, uint64(512))
}

func TestAnalyzeRemote_AbortsTransfer(t *testing.T) {
	var (
		written atomic.Int64
		stopped = make(chan struct{})
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(stopped)
		flusher := w.(http.Flusher)

		n, _ := w.Write(fixtures.GIF(320, 240))
		written.Add(int64(n))
		flusher.Flush()

		chunk := make([]byte, 1024)
		for i := 0; i < 100000; i++ {
			select {
			case <-r.Context().Done():
				return
			default:
			}
			n, err := w.Write(chunk)
			written.Add(int64(n))
			if err != nil {
				return
			}
			flusher.Flush()
			time.Sleep(time.Millisecond)
		}
	}))
	defer srv.Close()

	info, err := New(Options{}).AnalyzeRemote(context.Background(), srv.URL+"/stream.gif")
	require.NoError(t, err)
	assert.Equal(t, FormatGIF, info.Format)
	assert.Equal(t, uint32(320), info.Width)
	assert.Equal(t, uint32(240), info.Height)
	assert.Nil(t, info.Size)

	select {
	case <-stopped:
	case <-time.After(10 * time.Second):
		t.Fatal("server kept streaming after the header was resolved")
	}
	assert.Less(t, written.Load(), int64(100000*1024))
}

func TestAnalyzeRemote_StatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	tests := []struct {
		path   string
		status int
	}{
		{"/missing.png", http.StatusNotFound},
		{"/broken.png", http.StatusInternalServerError},
	}

	a := New(Options{})
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := a.AnalyzeRemote(context.Background(), srv.URL+tt.path)
			require.ErrorIs(t, err, ErrNetwork)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, KindNetwork, e.Kind)
			assert.Equal(t, tt.status, e.StatusCode)
		})
	}
}

func TestAnalyzeRemote_RequestHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write(fixtures.PNG(1, 1))
	}))
	defer srv.Close()

	_, err := New(Options{UserAgent: "probe/2.0"}).AnalyzeRemote(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "probe/2.0", got.Get("User-Agent"))
	assert.Equal(t, "identity", got.Get("Accept-Encoding"))
}

func TestAnalyzeRemote_Unsupported(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	_, err := New(Options{}).AnalyzeRemote(context.Background(), srv.URL+"/file.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestAnalyzeRemote_Truncated(t *testing.T) {
	srv := httptest.NewServer(serveBytes(fixtures.PNG(10, 20)[:20]))
	defer srv.Close()

	_, err := New(Options{}).AnalyzeRemote(context.Background(), srv.URL+"/cut.png")
	require.ErrorIs(t, err, ErrTruncatedData)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, uint64(20), e.Transferred)
}

func TestAnalyzeRemote_RedirectLimit(t *testing.T) {
	var hops atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hops.Add(1)
		http.Redirect(w, r, "/loop?n="+strconv.Itoa(int(hops.Load())), http.StatusFound)
	}))
	defer srv.Close()

	_, err := New(Options{MaxRedirects: 3}).AnalyzeRemote(context.Background(), srv.URL+"/loop")
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, int32(4), hops.Load())
}

func TestAnalyzeRemote_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := New(Options{Timeout: 100 * time.Millisecond}).AnalyzeRemote(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.GreaterOrEqual(t, e.ElapsedMillis, float64(90))
}

func TestAnalyzeRemote_InvalidLocator(t *testing.T) {
	a := New(Options{})
	for _, locator := range []string{
		"ftp://example.com/image.png",
		"http://",
		"://missing-scheme",
		"/local/path.png",
	} {
		t.Run(locator, func(t *testing.T) {
			_, err := a.AnalyzeRemote(context.Background(), locator)
			assert.ErrorIs(t, err, ErrInvalidLocator)
		})
	}
}

func TestAnalyzeRemote_ConnectionClosedMidHeader(t *testing.T) {
	prefix := fixtures.PNG(10, 20)[:20]

	tests := []struct {
		name   string
		header string
		body   string
	}{
		{
			name:   "declared length",
			header: "Content-Length: 5000\r\n",
			body:   string(prefix),
		},
		{
			name:   "chunked",
			header: "Transfer-Encoding: chunked\r\n",
			body:   fmt.Sprintf("%x\r\n%s\r\n", len(prefix), prefix),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				conn, buf, err := w.(http.Hijacker).Hijack()
				if err != nil {
					return
				}
				defer conn.Close()
				buf.WriteString("HTTP/1.1 200 OK\r\nContent-Type: image/png\r\n" + tt.header + "\r\n" + tt.body)
				buf.Flush()
			}))
			defer srv.Close()

			_, err := New(Options{}).AnalyzeRemote(context.Background(), srv.URL+"/cut.png")
			require.ErrorIs(t, err, ErrTruncatedData)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, KindTruncatedData, e.Kind)
			assert.Equal(t, uint64(len(prefix)), e.Transferred)
		})
	}
}

func TestAnalyzeRemote_NormalizedURLIsNotRedirect(t *testing.T) {
	srv := httptest.NewServer(serveBytes(fixtures.GIF(2, 3)))
	defer srv.Close()

	locator := "HTTP://" + strings.TrimPrefix(srv.URL, "http://") + "/a b.gif"
	info, err := New(Options{}).AnalyzeRemote(context.Background(), locator)
	require.NoError(t, err)

	assert.Equal(t, locator, info.Locator)
	assert.Empty(t, info.ResolvedLocator)
}

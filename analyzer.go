package fastimage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

const (
	// DefaultChunkSize is the read size used for local files.
	DefaultChunkSize = 4 * 1024

	// DefaultMaxRedirects matches the net/http client default.
	DefaultMaxRedirects = 10

	// DefaultUserAgent is sent with remote requests unless overridden.
	DefaultUserAgent = "fastimage/1.0"
)

// Options configures an Analyzer. Zero values select the defaults.
type Options struct {
	// MaxBufferSize caps the bytes kept while sniffing a header.
	MaxBufferSize int

	// ChunkSize is the size of each read from a file or response body.
	ChunkSize int

	// Timeout bounds a remote analysis, from connecting to the last byte
	// read. Zero means no timeout beyond the caller's context.
	Timeout time.Duration

	// LocalTimeout bounds a local analysis. Zero means no timeout.
	LocalTimeout time.Duration

	// MaxRedirects caps the redirects followed for remote sources. Negative
	// values disable redirects.
	MaxRedirects int

	UserAgent string

	// HTTPClient is used for remote sources. Its CheckRedirect is replaced by
	// the analyzer's redirect policy on a private copy.
	HTTPClient *http.Client

	// Logger receives debug records about transfers. Defaults to discarding.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxBufferSize <= 0 {
		o.MaxBufferSize = DefaultMaxBufferSize
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.MaxRedirects == 0 {
		o.MaxRedirects = DefaultMaxRedirects
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Analyzer determines image dimensions and formats from local files and
// remote URLs. An Analyzer holds no per-analysis state and is safe for
// concurrent use.
type Analyzer struct {
	opts   Options
	client *http.Client
	logger *slog.Logger
}

// New creates an Analyzer with the given options.
func New(opts Options) *Analyzer {
	opts = opts.withDefaults()

	var client http.Client
	if opts.HTTPClient != nil {
		client = *opts.HTTPClient
	} else {
		client = *cleanhttp.DefaultPooledClient()
	}
	client.CheckRedirect = redirectPolicy(opts.MaxRedirects, opts.Logger)

	return &Analyzer{
		opts:   opts,
		client: &client,
		logger: opts.Logger,
	}
}

func redirectPolicy(limit int, logger *slog.Logger) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if limit < 0 || len(via) > limit {
			return fmt.Errorf("stopped after %d redirects", len(via)-1)
		}
		logger.Debug("following redirect",
			"from", via[len(via)-1].URL.String(),
			"to", req.URL.String(),
			"hops", len(via),
		)
		return nil
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// Analyze inspects a local path or an http(s) URL. Locators without a scheme,
// with the file scheme, or with a single-letter (drive) scheme are read from
// disk.
func (a *Analyzer) Analyze(ctx context.Context, locator string) (*ImageInfo, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, newError(KindInvalidLocator, locator, 0, fmt.Errorf("empty locator"))
	}

	u, err := url.Parse(locator)
	if err != nil {
		// Plain file names may contain bytes that are invalid in URLs, like '%'
		if _, statErr := os.Stat(locator); statErr == nil {
			return a.AnalyzeLocal(ctx, locator)
		}
		return nil, newError(KindInvalidLocator, locator, 0, err)
	}

	switch scheme := strings.ToLower(u.Scheme); {
	case scheme == "http" || scheme == "https":
		return a.AnalyzeRemote(ctx, locator)
	case scheme == "file":
		if u.Path == "" {
			return nil, newError(KindInvalidLocator, locator, 0, fmt.Errorf("file URL without a path"))
		}
		return a.AnalyzeLocal(ctx, u.Path)
	case scheme == "" || len(scheme) == 1:
		return a.AnalyzeLocal(ctx, locator)
	default:
		return nil, newError(KindInvalidLocator, locator, 0, fmt.Errorf("unsupported scheme %q", u.Scheme))
	}
}

// Size returns only the dimensions of the image at locator.
func (a *Analyzer) Size(ctx context.Context, locator string) (width, height uint32, err error) {
	info, err := a.Analyze(ctx, locator)
	if err != nil {
		return 0, 0, err
	}
	return info.Width, info.Height, nil
}

// Type returns only the format of the image at locator.
func (a *Analyzer) Type(ctx context.Context, locator string) (Format, error) {
	info, err := a.Analyze(ctx, locator)
	if err != nil {
		return FormatUnknown, err
	}
	return info.Format, nil
}

var (
	defaultOnce     sync.Once
	defaultAnalyzer *Analyzer
)

// Default returns the Analyzer used by the package-level functions.
func Default() *Analyzer {
	defaultOnce.Do(func() {
		defaultAnalyzer = New(Options{})
	})
	return defaultAnalyzer
}

// Analyze inspects a local path or an http(s) URL with the default Analyzer.
//
// Example:
//
//	info, err := fastimage.Analyze(ctx, "https://example.com/photo.jpg")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("Format: %s, Dimensions: %dx%d\n", info.Format, info.Width, info.Height)
func Analyze(ctx context.Context, locator string) (*ImageInfo, error) {
	return Default().Analyze(ctx, locator)
}

// AnalyzeLocal inspects a file with the default Analyzer.
func AnalyzeLocal(ctx context.Context, path string) (*ImageInfo, error) {
	return Default().AnalyzeLocal(ctx, path)
}

// AnalyzeRemote inspects an http(s) URL with the default Analyzer.
func AnalyzeRemote(ctx context.Context, rawURL string) (*ImageInfo, error) {
	return Default().AnalyzeRemote(ctx, rawURL)
}

// Size returns the dimensions of the image at locator using the default Analyzer.
func Size(ctx context.Context, locator string) (width, height uint32, err error) {
	return Default().Size(ctx, locator)
}

// Type returns the format of the image at locator using the default Analyzer.
func Type(ctx context.Context, locator string) (Format, error) {
	return Default().Type(ctx, locator)
}

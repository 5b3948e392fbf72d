package catalog

import (
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/star/snwatch/internal/metrics"
)

// DefaultSourceURL is the Rochester active supernovae page.
const DefaultSourceURL = pageURL

const (
	defaultTimeout = 20 * time.Second
	maxBodyBytes   = 50 << 20
)

// Fetcher retrieves the raw catalog page. A source that is not an http(s)
// URL is read from the local filesystem.
type Fetcher struct {
	sourceURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewFetcher creates a Fetcher for the given source. A zero timeout uses the
// 20 second default.
func NewFetcher(sourceURL string, timeout time.Duration, logger *zap.Logger) *Fetcher {
	if sourceURL == "" {
		sourceURL = DefaultSourceURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		sourceURL: sourceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.Named("fetcher"),
	}
}

// SourceURL returns the configured source.
func (f *Fetcher) SourceURL() string {
	return f.sourceURL
}

// Fetch makes a single attempt to read the catalog page.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()
	body, err := f.fetch(ctx)
	metrics.RecordFetch(time.Since(start), err)
	if err != nil {
		f.logger.Warn("catalog fetch failed", zap.String("source", f.sourceURL), zap.Error(err))
		return nil, err
	}
	f.logger.Info("catalog fetched",
		zap.String("source", f.sourceURL),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return body, nil
}

func (f *Fetcher) fetch(ctx context.Context) ([]byte, error) {
	if !isHTTP(f.sourceURL) {
		return f.readFile()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.sourceURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "creating request")
	}
	req.Header.Set("User-Agent", "snwatch/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetching catalog")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("unexpected status code %d from %s", resp.StatusCode, f.sourceURL)
	}

	return readLimited(resp.Body)
}

func (f *Fetcher) readFile() ([]byte, error) {
	path := strings.TrimPrefix(f.sourceURL, "file://")
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "opening catalog file %s", path)
	}
	defer file.Close()
	return readLimited(file)
}

// readLimited reads r, failing once more than maxBodyBytes arrive.
func readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "reading response body")
	}
	if len(body) > maxBodyBytes {
		return nil, eris.Errorf("response exceeds %d byte limit", maxBodyBytes)
	}
	return body, nil
}

func isHTTP(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

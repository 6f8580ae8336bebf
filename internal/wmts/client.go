package wmts

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	kgzip "github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/defvs/francegen/internal/worldgen/errs"
)

const (
	httpTimeout    = 30 * time.Second
	fetchRetries   = 2
	requestVersion = "1.0.0"
	userAgent      = "francegen/0.1"
)

// Client fetches WMTS capabilities documents and individual tiles.
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

// NewClient builds a Client. logger may be nil. Transport compression is
// handled explicitly (see readBody) rather than left to net/http's
// transparent gzip, so responses are decompressed the same way regardless
// of which HTTP/1.1 vs HTTP/2 path the server answers on.
func NewClient(logger *zap.Logger) *Client {
	transport := &http.Transport{DisableCompression: true}
	return &Client{http: &http.Client{Timeout: httpTimeout, Transport: transport}, logger: logger}
}

func readBody(resp *http.Response) ([]byte, error) {
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := kgzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}
	return io.ReadAll(resp.Body)
}

// FetchCapabilities downloads the raw GetCapabilities XML document.
func (c *Client) FetchCapabilities(ctx context.Context, capabilitiesURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, capabilitiesURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.New(errs.HTTPError, "fetch WMTS capabilities", capabilitiesURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.New(errs.HTTPError, "WMTS capabilities status", capabilitiesURL, nil)
	}
	return readBody(resp)
}

// TileRequest identifies one GetTile call.
type TileRequest struct {
	Layer, Style, MatrixSet, Matrix, Format string
	Row, Col                                uint32
}

// BuildTileURL composes a KVP GetTile request against base, per the WMTS
// 1.0.0 RESTful-via-KVP binding.
func BuildTileURL(base string, req TileRequest) string {
	values := url.Values{
		"SERVICE":       {"WMTS"},
		"REQUEST":       {"GetTile"},
		"VERSION":       {requestVersion},
		"LAYER":         {req.Layer},
		"STYLE":         {req.Style},
		"FORMAT":        {req.Format},
		"TileMatrixSet": {req.MatrixSet},
		"TileMatrix":    {req.Matrix},
		"TileRow":       {strconv.FormatUint(uint64(req.Row), 10)},
		"TileCol":       {strconv.FormatUint(uint64(req.Col), 10)},
	}
	separator := "?"
	if strings.Contains(base, "?") {
		separator = "&"
	}
	return base + separator + values.Encode()
}

// FetchTile downloads one tile's raw bytes, retrying up to fetchRetries
// times on network errors or non-2xx responses (mirroring the original's
// fixed-retry WMTS tile fetch policy).
func (c *Client) FetchTile(ctx context.Context, tileURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= fetchRetries; attempt++ {
		body, err := c.fetchOnce(ctx, tileURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if c.logger != nil {
			c.logger.Warn("WMTS tile fetch failed", zap.String("url", tileURL), zap.Int("attempt", attempt), zap.Error(err))
		}
	}
	return nil, errs.New(errs.HTTPError, "fetch WMTS tile", tileURL, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, tileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.HTTPError, "WMTS tile status", tileURL, nil)
	}
	return readBody(resp)
}

// ExtensionForFormat maps a WMTS MIME type to the file extension its cache
// entries are stored under.
func ExtensionForFormat(format string) (string, error) {
	switch strings.ToLower(format) {
	case "image/png":
		return "png", nil
	case "image/jpeg", "image/jpg":
		return "jpg", nil
	default:
		return "", errs.New(errs.ConfigError, "resolve WMTS format extension", format, nil)
	}
}

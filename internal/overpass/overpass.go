// Package overpass is the Overpass API HTTP client (C6's external
// collaborator): it builds an [out:json] query wrapping a layer's Overpass
// QL body, posts it with bounded retries, and decodes the response.
package overpass

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/defvs/francegen/internal/worldgen/errs"
)

const (
	queryTimeoutSeconds = 90
	userAgent           = "francegen/0.1"
	// MaxAttempts and RetryBackoff mirror the original implementation's
	// Overpass policy: many attempts with a fixed sleep between them,
	// rather than exponential back-off (Overpass mirrors are typically
	// either up or rate-limiting, not gradually recovering).
	MaxAttempts  = 5
	RetryBackoff = 3 * time.Second
)

// Point is one vertex of an Overpass "geom" way/relation member, already in
// WGS84 lat/lon degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is one Overpass result element carrying geometry and tags. Only
// elements with an "out geom" geometry array (>= 2 points) are rasterizable.
type Element struct {
	Geometry []Point           `json:"geometry"`
	Tags     map[string]string `json:"tags"`
}

// Response is the top-level Overpass JSON payload.
type Response struct {
	Elements []Element `json:"elements"`
}

// Client queries an Overpass mirror over HTTP.
type Client struct {
	http   *http.Client
	url    string
	logger *zap.Logger
}

// NewClient builds a Client against overpassURL (e.g.
// "https://overpass-api.de/api/interpreter"). logger may be nil.
func NewClient(overpassURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = queryTimeoutSeconds * time.Second
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		url:    overpassURL,
		logger: logger,
	}
}

// Query wraps body (Overpass QL, with any "{{bbox}}" placeholder already
// substituted by the caller) in the standard [out:json][timeout:N] envelope,
// posts it, and makes up to MaxAttempts attempts in total on transport
// errors or non-2xx responses, with a fixed RetryBackoff sleep between
// attempts.
func (c *Client) Query(ctx context.Context, body string) (Response, error) {
	envelope := buildEnvelope(body)

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		resp, err := c.post(ctx, envelope)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if c.logger != nil {
			c.logger.Warn("overpass query attempt failed",
				zap.Int("attempt", attempt), zap.Int("max_attempts", MaxAttempts), zap.Error(err))
		}
		if attempt == MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case <-time.After(RetryBackoff):
		}
	}
	return Response{}, errs.New(errs.HTTPError, "query overpass", c.url, lastErr)
}

func (c *Client) post(ctx context.Context, body string) (Response, error) {
	form := url.Values{"data": {body}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(form.Encode()))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, errs.New(errs.HTTPError, "overpass status", c.url, errors.New(trimPreview(payload)))
	}

	var parsed Response
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(payload, &parsed); err != nil {
		return Response{}, errs.New(errs.DecodeError, "decode overpass response", c.url, err)
	}
	return parsed, nil
}

func buildEnvelope(body string) string {
	trimmed := strings.TrimSpace(body)
	if !strings.HasSuffix(trimmed, ";") {
		trimmed += ";"
	}
	var sb strings.Builder
	sb.WriteString("[out:json][timeout:")
	sb.WriteString(strconv.Itoa(queryTimeoutSeconds))
	sb.WriteString("];")
	sb.WriteString(trimmed)
	sb.WriteString("out geom;")
	return sb.String()
}

const previewLimit = 600

func trimPreview(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= previewLimit {
		return s
	}
	return s[:previewLimit] + "…"
}


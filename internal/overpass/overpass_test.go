package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildEnvelopeWrapsBodyAndAppendsOutGeom(t *testing.T) {
	got := buildEnvelope("way[\"highway\"](bbox);")
	if !strings.HasPrefix(got, "[out:json][timeout:90];") {
		t.Errorf("envelope = %q, want [out:json][timeout:90]; prefix", got)
	}
	if !strings.HasSuffix(got, "out geom;") {
		t.Errorf("envelope = %q, want out geom; suffix", got)
	}
}

func TestBuildEnvelopeAddsMissingSemicolon(t *testing.T) {
	got := buildEnvelope("way[\"highway\"](bbox)")
	if !strings.Contains(got, "(bbox);out geom;") {
		t.Errorf("envelope = %q, want a semicolon inserted before out geom", got)
	}
}

func TestQuerySucceedsOnFirstAttempt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elements":[{"geometry":[{"lat":1,"lon":2},{"lat":3,"lon":4}],"tags":{"width":"4"}}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, nil)
	resp, err := client.Query(context.Background(), "way(bbox);")
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Elements) != 1 || len(resp.Elements[0].Geometry) != 2 {
		t.Fatalf("got %+v", resp)
	}
	if resp.Elements[0].Tags["width"] != "4" {
		t.Errorf("tags = %+v, want width=4", resp.Elements[0].Tags)
	}
}

func TestQueryRetriesThenFails(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 0, nil)
	client.http.Timeout = 0

	// This runs the real retry loop, sleeping RetryBackoff between each of
	// the MaxAttempts attempts against a server that always fails, so it is
	// skipped in short mode.
	if testing.Short() {
		t.Skip("skipping full-retry-loop test in short mode")
	}
	_, err := client.Query(context.Background(), "way(bbox);")
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if attempts != MaxAttempts {
		t.Errorf("attempts = %d, want %d", attempts, MaxAttempts)
	}
}

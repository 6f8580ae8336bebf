package wmts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestBuildTileURLIncludesAllParameters(t *testing.T) {
	got := BuildTileURL("https://wmts.example.test/tile", TileRequest{
		Layer: "ORTHO", Style: "normal", MatrixSet: "PM", Matrix: "15",
		Format: "image/jpeg", Row: 7, Col: 9,
	})
	parsed, err := url.Parse(got)
	if err != nil {
		t.Fatal(err)
	}
	q := parsed.Query()
	want := map[string]string{
		"SERVICE": "WMTS", "REQUEST": "GetTile", "VERSION": requestVersion,
		"LAYER": "ORTHO", "STYLE": "normal", "FORMAT": "image/jpeg",
		"TileMatrixSet": "PM", "TileMatrix": "15", "TileRow": "7", "TileCol": "9",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Errorf("query[%s] = %q, want %q", k, q.Get(k), v)
		}
	}
}

func TestBuildTileURLAppendsWithQuestionMarkWhenBaseHasNoQuery(t *testing.T) {
	got := BuildTileURL("https://wmts.example.test/tile", TileRequest{})
	if !strings.Contains(got, "?") {
		t.Errorf("got %q, want a ? separator", got)
	}
}

func TestBuildTileURLAppendsWithAmpersandWhenBaseHasQuery(t *testing.T) {
	got := BuildTileURL("https://wmts.example.test/tile?service=WMTS", TileRequest{})
	if !strings.Contains(got, "?service=WMTS&") {
		t.Errorf("got %q, want &-joined params after the existing query", got)
	}
}

func TestExtensionForFormat(t *testing.T) {
	cases := map[string]string{"image/png": "png", "image/jpeg": "jpg", "image/jpg": "jpg"}
	for format, want := range cases {
		got, err := ExtensionForFormat(format)
		if err != nil || got != want {
			t.Errorf("ExtensionForFormat(%q) = (%q, %v), want (%q, nil)", format, got, err, want)
		}
	}
	if _, err := ExtensionForFormat("image/tiff"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestFetchCapabilitiesReturnsBodyOn200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<Capabilities/>"))
	}))
	defer server.Close()

	client := NewClient(nil)
	body, err := client.FetchCapabilities(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "<Capabilities/>" {
		t.Errorf("body = %q", body)
	}
}

func TestFetchTileRetriesOnFailureThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("tile-bytes"))
	}))
	defer server.Close()

	client := NewClient(nil)
	body, err := client.FetchTile(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "tile-bytes" {
		t.Errorf("body = %q", body)
	}
}

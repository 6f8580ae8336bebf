package vectoroverlay

import "testing"

func TestBuildQuerySubstitutesBboxPlaceholder(t *testing.T) {
	layer := Layer{Query: `way["highway"](bbox:{{bbox}});`}
	got := BuildQuery(layer, "48.8,2.3,48.9,2.4")
	want := `way["highway"](bbox:48.8,2.3,48.9,2.4);`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildQueryLeavesBodyUnchangedWithoutPlaceholder(t *testing.T) {
	layer := Layer{Query: `way["highway"="primary"];`}
	got := BuildQuery(layer, "48.8,2.3,48.9,2.4")
	if got != layer.Query {
		t.Errorf("got %q, want unchanged %q", got, layer.Query)
	}
}

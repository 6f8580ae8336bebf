// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package wmts

import "testing"

func TestTileKeySanitizesIdentifiersAndAppendsExtension(t *testing.T) {
	got := TileKey("ORTHOIMAGERY.ORTHOPHOTOS", "PM:15", 7, 9, "jpg")
	want := "ORTHOIMAGERY_ORTHOPHOTOS_PM_15_7_9.jpg"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDiskCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewDiskCache(dir)
	if err != nil {
		t.Fatal(err)
	}

	if _, ok, err := cache.Get("missing.png"); ok || err != nil {
		t.Fatalf("Get(missing) = (_, %v, %v), want (_, false, nil)", ok, err)
	}

	if err := cache.Put("tile.png", []byte("pixels")); err != nil {
		t.Fatal(err)
	}
	data, ok, err := cache.Get("tile.png")
	if err != nil || !ok {
		t.Fatalf("Get(tile.png) = (_, %v, %v)", ok, err)
	}
	if string(data) != "pixels" {
		t.Errorf("data = %q, want pixels", data)
	}
}

func TestDiskCacheCleanupRemovesDirectory(t *testing.T) {
	dir := t.TempDir() + "/wmts-cache"
	cache, err := NewDiskCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Put("a.png", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := cache.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := cache.Get("a.png"); ok {
		t.Error("expected cache to be empty after cleanup")
	}
}

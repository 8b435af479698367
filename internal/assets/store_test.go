package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const stoneModel = `{
  "parent": "minecraft:block/cube_all",
  "textures": {"all": "minecraft:block/stone"}
}`

func newTestServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	var pngBuf bytes.Buffer
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/models/block/stone.json", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(stoneModel))
	})
	mux.HandleFunc("/models/block/bad.json", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"textures": {"all": 7}}`))
	})
	mux.HandleFunc("/textures/block/stone.png", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write(pngBuf.Bytes())
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func openTestStore(t *testing.T, baseURL string) *Store {
	t.Helper()
	s, err := Open(Options{BaseURL: baseURL, CacheDir: t.TempDir()})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestModelForFetchesAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	s := openTestStore(t, srv.URL)

	def, ok := s.ModelFor("minecraft:block/stone")
	if !ok {
		t.Fatalf("model absent")
	}
	if def.Parent != "minecraft:block/cube_all" {
		t.Fatalf("parent = %q", def.Parent)
	}
	if def.Textures["all"] != "minecraft:block/stone" {
		t.Fatalf("textures = %v", def.Textures)
	}

	// Second lookup is served from the disk cache.
	before := hits.Load()
	if _, ok := s.ModelFor("block/stone"); !ok {
		t.Fatalf("cached model absent")
	}
	if hits.Load() != before {
		t.Fatalf("cache miss: hits went %d -> %d", before, hits.Load())
	}
}

func TestModelForNegativeCaching(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	s := openTestStore(t, srv.URL)

	if _, ok := s.ModelFor("block/no_such"); ok {
		t.Fatalf("missing model resolved")
	}
	before := hits.Load()
	if _, ok := s.ModelFor("block/no_such"); ok {
		t.Fatalf("missing model resolved on retry")
	}
	if hits.Load() != before {
		t.Fatalf("negative lookup hit the network again")
	}
}

func TestModelForRejectsInvalidSchema(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	s := openTestStore(t, srv.URL)

	if _, ok := s.ModelFor("block/bad"); ok {
		t.Fatalf("schema-invalid model accepted")
	}
}

func TestTextureFor(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	s := openTestStore(t, srv.URL)

	img, ok := s.TextureFor("minecraft:block/stone")
	if !ok {
		t.Fatalf("texture absent")
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("texture bounds %v", img.Bounds())
	}
	if _, ok := s.TextureFor("block/no_such"); ok {
		t.Fatalf("missing texture resolved")
	}
}

func TestNormalizeAssetPathStaysRelative(t *testing.T) {
	// Upward traversal is clamped at the cache root.
	if got := normalizeAssetPath("models/../../etc/passwd"); got != "etc/passwd" {
		t.Fatalf("got %q", got)
	}
	if got := normalizeAssetPath("models//block/stone.json"); got != "models/block/stone.json" {
		t.Fatalf("got %q", got)
	}
	if got := normalizeAssetPath("   "); got != "" {
		t.Fatalf("blank path yields %q", got)
	}
}

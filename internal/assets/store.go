package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/sensen02/litematicRender/internal/model"
)

// Options configures a Store. Zero values pick the pinned default base URL
// and an index db next to the cache payloads.
type Options struct {
	BaseURL  string
	CacheDir string
	// IndexPath defaults to <CacheDir>/index.db.
	IndexPath string
	Logger    *log.Logger
}

// Store is the asset provider: model definitions and decoded textures by
// name, absent results as (zero, false). It layers a disk payload cache and
// an sqlite index (including negative lookups) over the remote store.
type Store struct {
	client *Client
	dir    string
	index  *CacheIndex
	logger *log.Logger
}

func Open(opts Options) (*Store, error) {
	if opts.CacheDir == "" {
		return nil, fmt.Errorf("cache dir is required")
	}
	if err := os.MkdirAll(opts.CacheDir, 0o755); err != nil {
		return nil, err
	}
	client, err := NewClient(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	indexPath := opts.IndexPath
	if indexPath == "" {
		indexPath = filepath.Join(opts.CacheDir, "index.db")
	}
	index, err := OpenIndex(indexPath)
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}
	return &Store{
		client: client,
		dir:    opts.CacheDir,
		index:  index,
		logger: opts.Logger,
	}, nil
}

func (s *Store) Close() error {
	return s.index.Close()
}

// ModelFor returns the model definition stored under name, e.g.
// "block/stone" or "item/ladder". Fetched JSON is validated against the
// model schema before decode; invalid payloads count as absent.
func (s *Store) ModelFor(name string) (model.Definition, bool) {
	relPath := normalizeAssetPath("models/" + model.StripNamespace(name) + ".json")
	if relPath == "" {
		return model.Definition{}, false
	}
	raw, ok := s.payload(relPath, func(ctx context.Context) ([]byte, error) {
		return s.client.FetchModel(ctx, model.StripNamespace(name))
	})
	if !ok {
		return model.Definition{}, false
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		s.logf("assets: model %s: bad json: %v", name, err)
		return model.Definition{}, false
	}
	if err := modelSchema.Validate(generic); err != nil {
		s.logf("assets: model %s: schema: %v", name, err)
		return model.Definition{}, false
	}
	var def model.Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		s.logf("assets: model %s: decode: %v", name, err)
		return model.Definition{}, false
	}
	return def, true
}

// TextureFor returns the decoded texture stored under name, e.g.
// "block/stone".
func (s *Store) TextureFor(name string) (image.Image, bool) {
	relPath := normalizeAssetPath("textures/" + model.StripNamespace(name) + ".png")
	if relPath == "" {
		return nil, false
	}
	raw, ok := s.payload(relPath, func(ctx context.Context) ([]byte, error) {
		return s.client.FetchTexture(ctx, model.StripNamespace(name))
	})
	if !ok {
		return nil, false
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		s.logf("assets: texture %s: decode: %v", name, err)
		return nil, false
	}
	return img, true
}

// payload returns the raw bytes for a cache-relative path, consulting the
// index, then the disk cache, then the remote store.
func (s *Store) payload(relPath string, fetch func(context.Context) ([]byte, error)) ([]byte, bool) {
	state, _ := s.index.Lookup(relPath)
	if state == cacheMissing {
		return nil, false
	}

	diskPath := filepath.Join(s.dir, filepath.FromSlash(relPath))
	if raw, err := os.ReadFile(diskPath); err == nil {
		return raw, true
	}

	raw, err := fetch(context.Background())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			if err := s.index.RecordMissing(relPath); err != nil {
				s.logf("assets: index %s: %v", relPath, err)
			}
			return nil, false
		}
		// Transient failure: do not poison the negative cache.
		s.logf("assets: fetch %s: %v", relPath, err)
		return nil, false
	}

	if err := os.MkdirAll(filepath.Dir(diskPath), 0o755); err == nil {
		if err := os.WriteFile(diskPath, raw, 0o644); err != nil {
			s.logf("assets: cache write %s: %v", relPath, err)
		} else if err := s.index.RecordStored(relPath, relPath, raw); err != nil {
			s.logf("assets: index %s: %v", relPath, err)
		}
	}
	return raw, true
}

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

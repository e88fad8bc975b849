// Package imagestore keeps uploaded product images as base64 data URIs in a
// single key-value slot, and resolves the indirect references products hold.
package imagestore

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"ShriHariStore/internal/kvstore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const keyImages = "global_product_images"

// BlobStore maps opaque image ids to base64 data URIs. Every mutation
// rewrites the whole map, matching the catalog's whole-collection model.
type BlobStore struct {
	log *zap.Logger
	kv  kvstore.Store

	mu    sync.RWMutex
	blobs map[string]string
}

type Info struct {
	Count           int     `json:"count"`
	EstimatedSizeMB float64 `json:"estimatedSizeMB"`
}

func NewBlobStore(ctx context.Context, kv kvstore.Store, log *zap.Logger) (*BlobStore, error) {
	s := &BlobStore{
		log:   log,
		kv:    kv,
		blobs: make(map[string]string),
	}

	raw, found, err := kv.Get(ctx, keyImages)
	if err != nil {
		return nil, fmt.Errorf("load image store: %w", err)
	}
	if found {
		if err := json.Unmarshal([]byte(raw), &s.blobs); err != nil {
			log.Warn("stored image map unreadable, starting empty", zap.Int("bytes", len(raw)))
			s.blobs = make(map[string]string)
		}
	}

	return s, nil
}

// NewID builds an image id in the historical format so references created by
// the old storefront stay valid.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("global_img_%d_%s", time.Now().UnixMilli(), suffix)
}

func (s *BlobStore) Store(ctx context.Context, id, data string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, had := s.blobs[id]
	s.blobs[id] = data

	if err := s.persist(ctx); err != nil {
		if had {
			s.blobs[id] = prev
		} else {
			delete(s.blobs, id)
		}
		return err
	}
	return nil
}

func (s *BlobStore) Fetch(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[id]
	return data, ok
}

func (s *BlobStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.blobs[id]
	if !ok {
		return false, nil
	}
	delete(s.blobs, id)

	if err := s.persist(ctx); err != nil {
		s.blobs[id] = prev
		return false, err
	}
	return true, nil
}

func (s *BlobStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.blobs))
	for id := range s.blobs {
		out = append(out, id)
	}
	return out
}

// Info estimates decoded size at 0.75x the base64 length.
func (s *BlobStore) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, data := range s.blobs {
		total += len(data)
	}

	mb := float64(total) * 0.75 / (1024 * 1024)
	return Info{
		Count:           len(s.blobs),
		EstimatedSizeMB: math.Round(mb*100) / 100,
	}
}

// ClearAll empties the map and removes the backing key entirely, rather than
// writing an empty map.
func (s *BlobStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, keyImages); err != nil {
		return err
	}
	s.blobs = make(map[string]string)
	return nil
}

// Sweep deletes every blob whose id is not in referenced and reports how many
// were removed. Deleting a product leaves its blobs behind; this is the
// reclamation path.
func (s *BlobStore) Sweep(ctx context.Context, referenced map[string]struct{}) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orphans []string
	for id := range s.blobs {
		if _, ok := referenced[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	if len(orphans) == 0 {
		return 0, nil
	}

	for _, id := range orphans {
		delete(s.blobs, id)
	}
	if err := s.persist(ctx); err != nil {
		return 0, err
	}
	return len(orphans), nil
}

func (s *BlobStore) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.blobs)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, keyImages, string(raw))
}

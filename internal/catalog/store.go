package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"ShriHariStore/internal/kvstore"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	keyProducts = "shri_hari_products"
	keyBackup   = "shri_hari_products_backup"
	keyMetadata = "shri_hari_products_metadata"

	metadataVersion = "1.0"

	DefaultMaxProducts = 2000
)

var (
	ErrCatalogFull = errors.New("catalog is at maximum capacity")
	ErrBadImport   = errors.New("import payload is not a product array")
)

// Metadata is the companion record rewritten after every successful save. It
// is derived, never authoritative; stats are always computed from the live
// collection.
type Metadata struct {
	TotalProducts int       `json:"totalProducts"`
	LastUpdated   time.Time `json:"lastUpdated"`
	Version       string    `json:"version"`
	StorageSize   int       `json:"storageSize"`
}

type Stats struct {
	TotalProducts    int     `json:"totalProducts"`
	MaxProducts      int     `json:"maxProducts"`
	RemainingSlots   int     `json:"remainingSlots"`
	StorageUsedBytes int     `json:"storageUsedBytes"`
	PercentUsed      float64 `json:"percentUsed"`
}

// Store owns the authoritative product collection. Every mutation rewrites
// the whole collection to the key-value substrate after copying the previous
// serialization to a single backup slot.
type Store struct {
	log  *zap.Logger
	kv   kvstore.Store
	node *snowflake.Node
	max  int
	now  func() time.Time

	mu       sync.RWMutex
	products []Product
}

type Option func(*Store)

func WithMaxProducts(n int) Option {
	return func(s *Store) { s.max = n }
}

// WithClock overrides the timestamp source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(ctx context.Context, kv kvstore.Store, log *zap.Logger, opts ...Option) (*Store, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}

	s := &Store{
		log:  log,
		kv:   kv,
		node: node,
		max:  DefaultMaxProducts,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the stored collection, falling back to the seed catalog when the
// primary key is absent or unreadable.
func (s *Store) load(ctx context.Context) error {
	raw, found, err := s.kv.Get(ctx, keyProducts)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	if found {
		var products []Product
		if err := json.Unmarshal([]byte(raw), &products); err == nil {
			s.products = products
			return nil
		}
		s.log.Warn("stored catalog unreadable, reseeding", zap.Int("bytes", len(raw)))
	}

	seed := seedProducts()
	if err := s.persist(ctx, seed); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	s.products = seed
	return nil
}

// persist implements the backup-before-write protocol: copy the current
// primary value to the backup slot, write the new serialization, then refresh
// metadata. A quota failure restores the primary from the backup before
// reporting the error.
func (s *Store) persist(ctx context.Context, next []Product) error {
	if cur, found, err := s.kv.Get(ctx, keyProducts); err == nil && found {
		if err := s.kv.Set(ctx, keyBackup, cur); err != nil {
			s.log.Warn("catalog backup write failed", zap.Error(err))
		}
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return err
	}

	if err := s.kv.Set(ctx, keyProducts, string(raw)); err != nil {
		if errors.Is(err, kvstore.ErrQuotaExceeded) {
			s.restoreFromBackup(ctx)
		}
		return err
	}

	s.writeMetadata(ctx, len(next), len(raw))
	return nil
}

func (s *Store) restoreFromBackup(ctx context.Context) {
	prev, found, err := s.kv.Get(ctx, keyBackup)
	if err != nil || !found {
		s.log.Warn("catalog backup unavailable for restore", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, keyProducts, prev); err != nil {
		s.log.Error("catalog restore from backup failed", zap.Error(err))
	}
}

func (s *Store) writeMetadata(ctx context.Context, count, size int) {
	meta := Metadata{
		TotalProducts: count,
		LastUpdated:   s.now().UTC(),
		Version:       metadataVersion,
		StorageSize:   size,
	}

	raw, err := json.Marshal(meta)
	if err == nil {
		err = s.kv.Set(ctx, keyMetadata, string(raw))
	}
	if err != nil {
		s.log.Warn("catalog metadata write failed", zap.Error(err))
	}
}

// Create validates the input, assigns a fresh id and timestamps, and prepends
// the record so the newest product lists first.
func (s *Store) Create(ctx context.Context, in Input) (Product, error) {
	if err := in.Validate(); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.products) >= s.max {
		return Product{}, ErrCatalogFull
	}

	now := s.now().UTC()
	p := Product{
		ID:            s.node.Generate().String(),
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Images:        in.Images,
		Category:      in.Category,
		Subcategory:   in.Subcategory,
		Sizes:         in.Sizes,
		Colors:        in.Colors,
		InStock:       in.InStock,
		Featured:      in.Featured,
		Tags:          in.Tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	next := make([]Product, 0, len(s.products)+1)
	next = append(next, p)
	next = append(next, s.products...)

	if err := s.persist(ctx, next); err != nil {
		return Product{}, err
	}
	s.products = next
	return p, nil
}

// Update merges the partial fields into the matching record. A missing id is
// a no-op reported through found=false, not an error.
func (s *Store) Update(ctx context.Context, id string, up Update) (Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.products {
		if s.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Product{}, false, nil
	}

	next := make([]Product, len(s.products))
	copy(next, s.products)

	p := next[idx]
	up.applyTo(&p)
	p.UpdatedAt = s.now().UTC()
	next[idx] = p

	if err := s.persist(ctx, next); err != nil {
		return Product{}, false, err
	}
	s.products = next
	return p, true, nil
}

// Delete filters the matching record out and persists the result. Referenced
// image blobs are left behind; the orphan sweep reclaims them.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]Product, 0, len(s.products))
	removed := false
	for _, p := range s.products {
		if p.ID == id {
			removed = true
			continue
		}
		next = append(next, p)
	}

	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.products = next
	return removed, nil
}

func (s *Store) Get(id string) (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func (s *Store) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Featured() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Product{}
	for _, p := range s.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) ByCategory(c Category) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Product{}
	for _, p := range s.products {
		if p.Category == c {
			out = append(out, p)
		}
	}
	return out
}

// Search matches the query case-insensitively against name, description,
// category, subcategory and tags. A blank query returns the full collection.
func (s *Store) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.List()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Product{}
	for _, p := range s.products {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(string(p.Category)), q) ||
		strings.Contains(strings.ToLower(p.Subcategory), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Export serializes the full collection as pretty-printed JSON.
func (s *Store) Export() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, err := json.MarshalIndent(s.products, "", "  ")
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Import replaces the entire collection with the parsed payload. It is
// destructive by contract: no merging with the existing catalog. Records
// missing an id get a fresh one; updatedAt is always restamped.
func (s *Store) Import(ctx context.Context, data string) (int, error) {
	var incoming []Product
	if err := json.Unmarshal([]byte(data), &incoming); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadImport, err)
	}
	if len(incoming) > s.max {
		return 0, ErrCatalogFull
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	for i := range incoming {
		if strings.TrimSpace(incoming[i].ID) == "" {
			incoming[i].ID = s.node.Generate().String()
		}
		if incoming[i].CreatedAt.IsZero() {
			incoming[i].CreatedAt = now
		}
		incoming[i].UpdatedAt = now
	}

	if err := s.persist(ctx, incoming); err != nil {
		return 0, err
	}
	s.products = incoming
	return len(incoming), nil
}

func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := []Product{}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.products = next
	return nil
}

// Stats reports utilization computed from the live collection, not from the
// stored metadata record.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	size := 0
	if raw, err := json.Marshal(s.products); err == nil {
		size = len(raw)
	}

	pct := 0.0
	if s.max > 0 {
		pct = math.Round(float64(len(s.products))/float64(s.max)*10000) / 100
	}

	return Stats{
		TotalProducts:    len(s.products),
		MaxProducts:      s.max,
		RemainingSlots:   s.max - len(s.products),
		StorageUsedBytes: size,
		PercentUsed:      pct,
	}
}

// ImageRefs returns every image reference string held by any product, for
// the orphan-blob sweep.
func (s *Store) ImageRefs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, p := range s.products {
		out = append(out, p.Images...)
	}
	return out
}

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fjod/go_pos/internal/domain"
	"github.com/fjod/go_pos/internal/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StorageKey is the fixed key the cart record lives under.
const StorageKey = "order-storage"

var ErrInvalidCandidate = errors.New("invalid cart item")

// record is the persisted shape: {"items": [...]}.
type record struct {
	Items []domain.LineItem `json:"items"`
}

// Listener receives the collection after every mutation. The slice is the listener's own copy.
type Listener func(items []domain.LineItem)

// Store owns the line items of the in-progress order.
// Items are kept in insertion order, at most one per product variant.
type Store struct {
	mu        sync.Mutex
	items     []domain.LineItem
	kv        storage.KV
	log       *zap.Logger
	timeout   time.Duration
	listeners map[int]Listener
	nextID    int
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithPersistTimeout bounds every write to the backing store.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// New hydrates a store from kv. Missing or unreadable state yields an empty cart.
func New(ctx context.Context, kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		log:       zap.NewNop(),
		timeout:   time.Second,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []domain.LineItem {
	data, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("cart state unreadable, starting empty", zap.Error(err))
		}
		return nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.Warn("cart state malformed, starting empty", zap.Error(err))
		return nil
	}

	items := make([]domain.LineItem, 0, len(rec.Items))
	for _, item := range rec.Items {
		if item.ProductVariantID == "" || item.Quantity <= 0 || indexOf(items, item.ProductVariantID) >= 0 {
			s.log.Warn("dropping invalid stored line item",
				zap.String("product_variant_id", item.ProductVariantID),
				zap.Int("quantity", item.Quantity))
			continue
		}
		// written before unit prices were stored; price is read as the line total
		if item.UnitPrice.IsZero() && !item.Price.IsZero() {
			item.UnitPrice = item.Price.Div(decimal.NewFromInt(int64(item.Quantity)))
		}
		items = append(items, item)
	}

	s.log.Info("cart hydrated", zap.Int("items", len(items)))
	return items
}

// AddItem puts one more unit of the candidate's variant into the cart.
// A repeated add behaves exactly like IncreaseQty.
func (s *Store) AddItem(c domain.Candidate) error {
	if strings.TrimSpace(c.ProductVariantID) == "" {
		return fmt.Errorf("%w: product variant id is required", ErrInvalidCandidate)
	}
	if c.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidCandidate)
	}

	s.mutate(func(items []domain.LineItem) ([]domain.LineItem, bool) {
		if i := indexOf(items, c.ProductVariantID); i >= 0 {
			items[i] = items[i].WithQuantity(items[i].Quantity + 1)
			return items, true
		}
		return append(items, domain.NewLineItem(c)), true
	})
	return nil
}

func (s *Store) RemoveItem(variantID string) {
	s.mutate(func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, variantID)
		if i < 0 {
			return items, false
		}
		return append(items[:i], items[i+1:]...), true
	})
}

func (s *Store) IncreaseQty(variantID string) {
	s.mutate(func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, variantID)
		if i < 0 {
			return items, false
		}
		items[i] = items[i].WithQuantity(items[i].Quantity + 1)
		return items, true
	})
}

// DecreaseQty removes the item once its quantity would drop to zero.
func (s *Store) DecreaseQty(variantID string) {
	s.mutate(func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, variantID)
		if i < 0 {
			return items, false
		}
		if items[i].Quantity-1 <= 0 {
			return append(items[:i], items[i+1:]...), true
		}
		items[i] = items[i].WithQuantity(items[i].Quantity - 1)
		return items, true
	})
}

func (s *Store) UpdateNote(variantID, note string) {
	s.mutate(func(items []domain.LineItem) ([]domain.LineItem, bool) {
		i := indexOf(items, variantID)
		if i < 0 {
			return items, false
		}
		items[i].Note = note
		return items, true
	})
}

func (s *Store) ClearOrder() {
	s.mutate(func([]domain.LineItem) ([]domain.LineItem, bool) {
		return nil, true
	})
}

// Items returns a copy of the collection in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe registers l for every future mutation; the returned func unregisters it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Flush writes the current state, returning the write error instead of logging it.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(ctx, s.items)
}

// mutate applies fn under the lock, persists the result and then notifies listeners.
// Persisting under the lock keeps the stored state in mutation order.
func (s *Store) mutate(fn func(items []domain.LineItem) ([]domain.LineItem, bool)) {
	s.mu.Lock()
	next, changed := fn(s.items)
	if !changed {
		s.mu.Unlock()
		return
	}
	s.items = next
	s.persist()

	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	snapshot := cloneItems(s.items)
	s.mu.Unlock()

	for _, l := range listeners {
		l(cloneItems(snapshot))
	}
}

func (s *Store) persist() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.write(ctx, s.items); err != nil {
		s.log.Warn("persist cart failed", zap.Error(err))
	}
}

func (s *Store) write(ctx context.Context, items []domain.LineItem) error {
	data, err := json.Marshal(record{Items: cloneItems(items)})
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	return s.kv.Set(ctx, StorageKey, data)
}

func indexOf(items []domain.LineItem, variantID string) int {
	for i := range items {
		if items[i].ProductVariantID == variantID {
			return i
		}
	}
	return -1
}

// cloneItems never returns nil so an empty cart persists as [].
func cloneItems(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}

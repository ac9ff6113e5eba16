// Package orders holds the order store and the lifecycle engine that
// mutates orders through assignment, delivery and payment collection.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/kvstore"
)

const ordersKeyPrefix = "orders_"

func ordersKey(date string) string { return ordersKeyPrefix + date }

// Store keeps one JSON array of orders per calendar date under the key
// orders_<YYYY-MM-DD>. Every write is a read-modify-write of the whole
// partition; a per-date mutex serializes writers within the process so
// concurrent updates to the same day cannot silently drop each other.
type Store struct {
	kv kvstore.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStore(kv kvstore.Store) *Store {
	return &Store{kv: kv, locks: make(map[string]*sync.Mutex)}
}

func (s *Store) partitionLock(date string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[date]
	if !ok {
		l = &sync.Mutex{}
		s.locks[date] = l
	}
	return l
}

func (s *Store) load(ctx context.Context, date string) ([]domain.Order, error) {
	raw, ok, err := s.kv.Get(ctx, ordersKey(date))
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Order{}, nil
	}
	var list []domain.Order
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("decode partition %s: %w", date, err)
	}
	return list, nil
}

func (s *Store) save(ctx context.Context, date string, list []domain.Order) error {
	b, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode partition %s: %w", date, err)
	}
	return s.kv.Set(ctx, ordersKey(date), string(b))
}

// List returns the full partition for a date, empty when absent.
func (s *Store) List(ctx context.Context, date string) ([]domain.Order, error) {
	return s.load(ctx, date)
}

// Append adds one order to the end of a date partition.
func (s *Store) Append(ctx context.Context, date string, order domain.Order) error {
	l := s.partitionLock(date)
	l.Lock()
	defer l.Unlock()

	list, err := s.load(ctx, date)
	if err != nil {
		return err
	}
	list = append(list, order)
	return s.save(ctx, date, list)
}

// AppendAll adds a batch of orders in one partition write; used by the
// ingestion adapters.
func (s *Store) AppendAll(ctx context.Context, date string, batch []domain.Order) error {
	if len(batch) == 0 {
		return nil
	}
	l := s.partitionLock(date)
	l.Lock()
	defer l.Unlock()

	list, err := s.load(ctx, date)
	if err != nil {
		return err
	}
	list = append(list, batch...)
	return s.save(ctx, date, list)
}

// Update applies mutate to the order with the given id and writes the
// partition back. Returns ErrNotFound, with the partition untouched, when
// the id is absent.
func (s *Store) Update(ctx context.Context, date, id string, mutate func(*domain.Order)) (domain.Order, error) {
	return s.UpdateChecked(ctx, date, id, func(o *domain.Order) error {
		mutate(o)
		return nil
	})
}

// UpdateChecked is Update with a mutator that can veto the change. The
// partition lock is held across load, check and save, so a validating
// mutator always sees the current state. A vetoed update leaves the
// partition untouched.
func (s *Store) UpdateChecked(ctx context.Context, date, id string, mutate func(*domain.Order) error) (domain.Order, error) {
	l := s.partitionLock(date)
	l.Lock()
	defer l.Unlock()

	list, err := s.load(ctx, date)
	if err != nil {
		return domain.Order{}, err
	}
	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return domain.Order{}, domain.ErrNotFound
	}
	if err := mutate(&list[idx]); err != nil {
		return domain.Order{}, err
	}
	if err := s.save(ctx, date, list); err != nil {
		return domain.Order{}, err
	}
	return list[idx], nil
}

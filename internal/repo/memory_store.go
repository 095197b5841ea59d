package repo

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rogerio-castellano/inventory-ledger/internal/models"
)

// MemoryStore holds every table of the in-memory repositories. Units of work
// are serialized by txMu, which stands in for row locks, and a failed unit of
// work restores the snapshot taken when it started.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	categories   []models.Category
	warehouses   []models.Warehouse
	products     []models.Product
	stocks       []models.Stock
	transactions []models.StockTransaction
	users        []models.User

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

type memTxKey struct{}

type memSnapshot struct {
	categories   []models.Category
	warehouses   []models.Warehouse
	products     []models.Product
	stocks       []models.Stock
	transactions []models.StockTransaction
	users        []models.User
}

var _ TxManager = (*MemoryStore)(nil)

func (s *MemoryStore) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inMemoryTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func inMemoryTx(ctx context.Context) bool {
	v, _ := ctx.Value(memTxKey{}).(bool)
	return v
}

// write runs fn under the data lock. Outside a unit of work it also takes
// txMu so it cannot be lost by a concurrent rollback.
func (s *MemoryStore) write(ctx context.Context, fn func()) {
	if !inMemoryTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *MemoryStore) read(fn func()) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn()
}

func (s *MemoryStore) snapshot() memSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return memSnapshot{
		categories:   slices.Clone(s.categories),
		warehouses:   slices.Clone(s.warehouses),
		products:     slices.Clone(s.products),
		stocks:       slices.Clone(s.stocks),
		transactions: slices.Clone(s.transactions),
		users:        slices.Clone(s.users),
	}
}

func (s *MemoryStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = snap.categories
	s.warehouses = snap.warehouses
	s.products = snap.products
	s.stocks = snap.stocks
	s.transactions = snap.transactions
	s.users = snap.users
}

// Clear drops every row. Used between tests.
func (s *MemoryStore) Clear() {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.restore(memSnapshot{})
}

// SetClock overrides the timestamp source.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.now = now
}

func nextID[T any](rows []T, id func(T) int64) int64 {
	var maxID int64
	for _, r := range rows {
		maxID = max(maxID, id(r))
	}
	return maxID + 1
}

func namesOf[T any](rows []T, id func(T) int64, name func(T) string) map[int64]string {
	out := make(map[int64]string, len(rows))
	for _, r := range rows {
		out[id(r)] = name(r)
	}
	return out
}

package store

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/AngelCh415/sellerdash/internal/adset"
	"github.com/AngelCh415/sellerdash/internal/models"
)

var ErrOrderNotFound = errors.New("order not found")

// DefaultMaxAccounts bounds how many accounts keep a batch in memory.
const DefaultMaxAccounts = 256

// account is everything cached on behalf of one upstream credential.
type account struct {
	orders   []models.Order
	ordersAt time.Time

	gens      map[models.View]uint64
	adsets    []adset.Row
	adsetSort models.SortState

	used time.Time
}

// MemoryStore keeps the latest upstream batch per view and per account key
// (the credential the batch was fetched with). Nothing fetched for one key is
// ever served under another. Readers always get copies; batches are replaced
// wholesale, never merged.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*account
	max      int
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*account),
		max:      DefaultMaxAccounts,
		now:      time.Now,
	}
}

// get devuelve la cuenta; con create la crea y desaloja la menos usada si hace falta.
func (s *MemoryStore) get(key string, create bool) *account {
	a, ok := s.accounts[key]
	if !ok {
		if !create {
			return nil
		}
		if len(s.accounts) >= s.max {
			s.evictLocked()
		}
		a = &account{gens: make(map[models.View]uint64), adsetSort: models.NewSortState()}
		s.accounts[key] = a
	}
	a.used = s.now()
	return a
}

func (s *MemoryStore) evictLocked() {
	var oldest string
	var at time.Time
	first := true
	for k, a := range s.accounts {
		if k == "" {
			// el lote del token de servicio no se desaloja
			continue
		}
		if first || a.used.Before(at) {
			oldest, at, first = k, a.used, false
		}
	}
	if !first {
		delete(s.accounts, oldest)
	}
}

func (s *MemoryStore) ReplaceOrders(key string, orders []models.Order) {
	cp := slices.Clone(orders)
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.get(key, true)
	a.orders = cp
	a.ordersAt = s.now()
}

func (s *MemoryStore) Orders(key string) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a := s.accounts[key]; a != nil {
		return slices.Clone(a.orders)
	}
	return nil
}

// OrdersFetchedAt is zero until the first batch for key arrives.
func (s *MemoryStore) OrdersFetchedAt(key string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a := s.accounts[key]; a != nil {
		return a.ordersAt
	}
	return time.Time{}
}

func (s *MemoryStore) Order(key, id string) (models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a := s.accounts[key]; a != nil {
		for _, o := range a.orders {
			if o.ID == id {
				return o, nil
			}
		}
	}
	return models.Order{}, ErrOrderNotFound
}

// update aplica fn sobre la orden con ese originalId.
func (s *MemoryStore) update(key, originalID string, fn func(*models.Order)) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.get(key, false)
	if a == nil {
		return models.Order{}, ErrOrderNotFound
	}
	for i := range a.orders {
		if a.orders[i].OriginalID.String() == originalID {
			fn(&a.orders[i])
			return a.orders[i], nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

// ApplyShipment records a created shipment. An empty status keeps the current one.
func (s *MemoryStore) ApplyShipment(key, originalID string, status models.OrderStatus, awb string) (models.Order, error) {
	return s.update(key, originalID, func(o *models.Order) {
		if status != "" {
			o.Status = status
		}
		a := awb
		o.AWB = &a
	})
}

func (s *MemoryStore) ApplyCancel(key, originalID string) (models.Order, error) {
	return s.update(key, originalID, func(o *models.Order) { o.Status = models.StatusCancelled })
}

// Begin opens a fetch for view v. Only the most recent generation may commit,
// so a slow response never overwrites a newer one.
func (s *MemoryStore) Begin(key string, v models.View) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.get(key, true)
	a.gens[v]++
	return a.gens[v]
}

func (a *account) current(v models.View, gen uint64) bool { return a != nil && a.gens[v] == gen }

// Latest reports whether gen is still the newest fetch for view v.
func (s *MemoryStore) Latest(key string, v models.View, gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[key].current(v, gen)
}

// CommitAdset stores a fresh roll-up and resets the table sort. It reports
// false, storing nothing, when gen was superseded.
func (s *MemoryStore) CommitAdset(key string, gen uint64, rows []adset.Row) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.get(key, false)
	if !a.current(models.ViewAdsetBreakdown, gen) {
		return false
	}
	a.adsets = slices.Clone(rows)
	a.adsetSort = a.adsetSort.Reset()
	return true
}

// Adsets returns the stored roll-up in fetch order and the active sort.
func (s *MemoryStore) Adsets(key string) ([]adset.Row, models.SortState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a := s.accounts[key]; a != nil {
		return slices.Clone(a.adsets), a.adsetSort
	}
	return nil, models.NewSortState()
}

func (s *MemoryStore) ToggleAdsetSort(key, sortKey string) ([]adset.Row, models.SortState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.get(key, false)
	if a == nil {
		return nil, models.NewSortState().Toggle(sortKey)
	}
	a.adsetSort = a.adsetSort.Toggle(sortKey)
	return slices.Clone(a.adsets), a.adsetSort
}

package api

import "sync"

// ProductStore keeps the most recent products so clients can fetch them again
// by ID. Once full, the oldest product is evicted.
type ProductStore struct {
	mu       sync.Mutex
	capacity int
	order    []string
	products map[string]Product
}

const defaultStoreCapacity = 64

func NewProductStore(capacity int) *ProductStore {
	if capacity <= 0 {
		capacity = defaultStoreCapacity
	}
	return &ProductStore{
		capacity: capacity,
		products: make(map[string]Product),
	}
}

func (s *ProductStore) Put(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.products[p.ID] = p
	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.products, oldest)
	}
}

func (s *ProductStore) Get(id string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

func (s *ProductStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return false
	}
	delete(s.products, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *ProductStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

var errStoreDown = errors.New("failed to list products: connection refused")

// memoryStore backs both mock repositories so the product/category relation holds
type memoryStore struct {
	mu         sync.Mutex
	products   map[int64]*domain.Product
	categories map[string]*domain.Category
	nextID     int64

	failList   bool
	failCreate bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		products:   make(map[int64]*domain.Product),
		categories: make(map[string]*domain.Category),
	}
}

type mockProductRepository struct{ store *memoryStore }

type mockCategoryRepository struct{ store *memoryStore }

func newMockRepositories() (*mockProductRepository, *mockCategoryRepository, *memoryStore) {
	store := newMemoryStore()
	return &mockProductRepository{store: store}, &mockCategoryRepository{store: store}, store
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if m.store.failCreate {
		return errors.New("failed to create product: disk full")
	}

	if m.store.categoryByID(product.CategoryID) == nil {
		return repository.ErrCategoryNotFound
	}

	m.store.nextID++
	product.ID = m.store.nextID
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	stored := *product
	m.store.products[product.ID] = &stored
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	product, ok := m.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	copied := *product
	copied.Category = m.store.categoryByID(product.CategoryID)
	return &copied, nil
}

func (m *mockProductRepository) ListInStock(ctx context.Context) ([]*domain.Product, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if m.store.failList {
		return nil, errStoreDown
	}

	products := []*domain.Product{}
	for _, p := range m.store.products {
		if p.Stock > 0 {
			copied := *p
			copied.Category = m.store.categoryByID(p.CategoryID)
			products = append(products, &copied)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, id int64) (*domain.Product, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	product, ok := m.store.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	if product.Stock <= 0 {
		return nil, repository.ErrStockExhausted
	}
	product.Stock--
	copied := *product
	return &copied, nil
}

func (m *mockCategoryRepository) FindOrCreate(ctx context.Context, name string) (*domain.Category, bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if c, ok := m.store.categories[name]; ok {
		return c, false, nil
	}
	m.store.nextID++
	c := &domain.Category{ID: m.store.nextID, Name: name, CreatedAt: time.Now()}
	m.store.categories[name] = c
	return c, true, nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	categories := []*domain.Category{}
	for _, c := range m.store.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// setStock forces a stock level, bypassing the workflows
func (s *memoryStore) setStock(id int64, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id].Stock = stock
}

// categoryByID expects s.mu to be held
func (s *memoryStore) categoryByID(id int64) *domain.Category {
	for _, c := range s.categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

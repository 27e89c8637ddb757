package catalog

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-storefront/internal/commerce"
)

const cacheTTL = 5 * time.Minute

// Service serves product details with a short in-memory cache in front of
// the commerce API. A fetch that finishes after a newer fetch for the same
// product never overwrites the newer result.
type Service struct {
	client commerce.Client
	logger *zap.Logger
	now    func() time.Time

	mu      sync.Mutex
	cache   map[string]cachedProduct
	fetches map[string]uint64
}

type cachedProduct struct {
	product   commerce.Product
	fetchedAt time.Time
}

type Deps struct {
	Client commerce.Client
	Logger *zap.Logger
}

func NewService(deps Deps) *Service {
	if deps.Client == nil {
		panic("catalog: commerce client is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Service{
		client:  deps.Client,
		logger:  deps.Logger,
		now:     time.Now,
		cache:   make(map[string]cachedProduct),
		fetches: make(map[string]uint64),
	}
}

// GetProduct returns the product, from cache when it is fresher than the
// TTL. A fetch failure falls back to a stale cached copy if one exists.
func (s *Service) GetProduct(ctx context.Context, productID string) (commerce.Product, error) {
	s.mu.Lock()
	cached, hasCached := s.cache[productID]
	if hasCached && s.now().Sub(cached.fetchedAt) < cacheTTL {
		s.mu.Unlock()
		return cached.product, nil
	}
	s.fetches[productID]++
	generation := s.fetches[productID]
	s.mu.Unlock()

	product, err := s.client.GetProduct(ctx, productID)
	if err != nil {
		if hasCached {
			s.logger.Warn("product refresh failed, serving cached copy",
				zap.String("productId", productID), zap.Error(err))
			return cached.product, nil
		}
		var apiErr *commerce.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return commerce.Product{}, ErrProductNotFound
		}
		return commerce.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// A newer fetch may have finished while this one was in flight.
	if s.fetches[productID] == generation {
		s.cache[productID] = cachedProduct{product: product, fetchedAt: s.now()}
	}
	return product, nil
}

// Invalidate drops the cached copy so the next read hits the API.
func (s *Service) Invalidate(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, productID)
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/appgeist/rest"
)

const productsKey = "products"

// Product is the stored entity of the demo API.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductStore keeps products in a Redis hash keyed by product ID.
type ProductStore struct {
	rdb *redis.Client
}

// NewProductStore creates a store over the given Redis client.
func NewProductStore(rdb *redis.Client) *ProductStore {
	return &ProductStore{rdb: rdb}
}

// List returns all products ordered by creation time.
func (s *ProductStore) List(ctx context.Context) ([]Product, error) {
	raw, err := s.rdb.HGetAll(ctx, productsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	products := make([]Product, 0, len(raw))
	for _, data := range raw {
		var p Product
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("decoding product: %w", err)
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.Before(products[j].CreatedAt)
	})
	return products, nil
}

// Get returns one product, or a 404 rest.Error when the ID is unknown.
func (s *ProductStore) Get(ctx context.Context, id string) (*Product, error) {
	data, err := s.rdb.HGet(ctx, productsKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, rest.NotFound("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading product %s: %w", id, err)
	}

	var p Product
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("decoding product %s: %w", id, err)
	}
	return &p, nil
}

// Create stores a new product and returns it with its generated ID.
func (s *ProductStore) Create(ctx context.Context, name string, price float64) (*Product, error) {
	p := &Product{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update overwrites the mutable fields of an existing product.
func (s *ProductStore) Update(ctx context.Context, id string, name *string, price *float64) (*Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		p.Name = *name
	}
	if price != nil {
		p.Price = *price
	}
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product, or returns a 404 rest.Error when the ID is
// unknown.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	removed, err := s.rdb.HDel(ctx, productsKey, id).Result()
	if err != nil {
		return fmt.Errorf("deleting product %s: %w", id, err)
	}
	if removed == 0 {
		return rest.NotFound("product not found")
	}
	return nil
}

func (s *ProductStore) save(ctx context.Context, p *Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding product %s: %w", p.ID, err)
	}
	if err := s.rdb.HSet(ctx, productsKey, p.ID, data).Err(); err != nil {
		return fmt.Errorf("storing product %s: %w", p.ID, err)
	}
	return nil
}

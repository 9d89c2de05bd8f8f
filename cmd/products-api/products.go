package main

import (
	"go.uber.org/zap"

	"github.com/appgeist/rest"
)

type listProductsQuery struct {
	Page    int `query:"page" validate:"omitempty,gt=0"`
	PerPage int `query:"perPage" validate:"omitempty,gt=0,lte=100"`
}

type createProductInput struct {
	Name  string  `json:"name" validate:"required,min=5"`
	Price float64 `json:"price" validate:"required,gt=0"`
}

type updateProductInput struct {
	Name  *string  `json:"name" validate:"omitempty,min=5"`
	Price *float64 `json:"price" validate:"omitempty,gt=0"`
}

// productsResource serves the collection route: listing and creation.
// Creation requires a bearer token.
func productsResource(store *ProductStore, guard rest.Hook, logger *zap.Logger) rest.Resource {
	return rest.Resource{
		Logger: logger,

		Get: &rest.Method{
			Query: listProductsQuery{},
			Handle: func(c *rest.Ctx) (any, error) {
				q := c.Query.(*listProductsQuery)
				products, err := store.List(c.Request.Context())
				if err != nil {
					return nil, err
				}
				return paginate(products, q.Page, q.PerPage), nil
			},
		},

		Post: &rest.Method{
			Body:   createProductInput{},
			Before: guard,
			Handle: func(c *rest.Ctx) (any, error) {
				in := c.Body.(*createProductInput)
				return store.Create(c.Request.Context(), in.Name, in.Price)
			},
		},
	}
}

// productResource serves the item route: read, update, delete. Mutations
// require a bearer token.
func productResource(store *ProductStore, guard rest.Hook, logger *zap.Logger) rest.Resource {
	return rest.Resource{
		Logger: logger,

		Get: rest.HandlerFunc(func(c *rest.Ctx) (any, error) {
			return store.Get(c.Request.Context(), c.Request.Params("id"))
		}),

		Put: &rest.Method{
			Body:   updateProductInput{},
			Before: guard,
			Handle: func(c *rest.Ctx) (any, error) {
				in := c.Body.(*updateProductInput)
				return store.Update(c.Request.Context(), c.Request.Params("id"), in.Name, in.Price)
			},
		},

		Delete: &rest.Method{
			Before: guard,
			Handle: func(c *rest.Ctx) (any, error) {
				return nil, store.Delete(c.Request.Context(), c.Request.Params("id"))
			},
		},
	}
}

func paginate(products []Product, page, perPage int) map[string]any {
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = 20
	}

	start := (page - 1) * perPage
	if start > len(products) {
		start = len(products)
	}
	end := start + perPage
	if end > len(products) {
		end = len(products)
	}

	return map[string]any{
		"data":    products[start:end],
		"page":    page,
		"perPage": perPage,
		"total":   len(products),
	}
}

package pagination

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

type Request struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// RequestFromValues reads page and per_page; missing or invalid values are 0
// and are expected to be fixed up by EnsureLimits.
func RequestFromValues(values url.Values) *Request {
	return &Request{
		Page:    atoi(values.Get("page")),
		PerPage: atoi(values.Get("per_page")),
	}
}

// Params lists the query parameters read by RequestFromValues.
func Params() []string {
	return []string{"page", "per_page"}
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

type Page[T any] struct {
	Data     []T  `json:"data"`
	Total    int  `json:"total"`
	Page     int  `json:"page"`
	PerPage  int  `json:"per_page"`
	LastPage int  `json:"last_page"`
	HasMore  bool `json:"has_more"`
}

// Finder is the storage side of pagination.
type Finder[T any] interface {
	Count(ctx context.Context) (int, error)
	Find(ctx context.Context, skip, limit int) ([]T, error)
}

func paginate[T any](ctx context.Context, req *Request, finder Finder[T]) (*Page[T], error) {
	if req.Page < 1 {
		return nil, errors.New("page must be a positive integer")
	}
	if req.PerPage < 1 {
		return nil, errors.New("per_page must be a positive integer")
	}

	total, err := finder.Count(ctx)
	if err != nil {
		return nil, err
	}

	page := &Page[T]{
		Data:     make([]T, 0),
		Total:    total,
		Page:     req.Page,
		PerPage:  req.PerPage,
		LastPage: 1,
	}
	if total > 0 {
		page.LastPage = (total-1)/req.PerPage + 1
	}
	// compare pages, not offsets: (page-1)*per_page can overflow
	if total == 0 || req.Page > page.LastPage {
		return page, nil
	}

	skip := (req.Page - 1) * req.PerPage

	nodes, err := finder.Find(ctx, skip, req.PerPage)
	if err != nil {
		return nil, err
	}
	page.Data = nodes
	page.HasMore = skip+len(nodes) < total
	return page, nil
}

type Paginator[T any] interface {
	Paginate(ctx context.Context, req *Request) (*Page[T], error)
}

type PaginatorFunc[T any] func(ctx context.Context, req *Request) (*Page[T], error)

func (f PaginatorFunc[T]) Paginate(ctx context.Context, req *Request) (*Page[T], error) {
	return f(ctx, req)
}

func New[T any](finder Finder[T], middlewares ...func(next Paginator[T]) Paginator[T]) Paginator[T] {
	if finder == nil {
		panic("finder must be set")
	}

	var p Paginator[T] = PaginatorFunc[T](func(ctx context.Context, req *Request) (*Page[T], error) {
		return paginate(ctx, req, finder)
	})
	for i := len(middlewares) - 1; i >= 0; i-- {
		p = middlewares[i](p)
	}
	return p
}

// EnsureLimits clamps per_page to maxPerPage, uses defaultPerPage when it is
// not set or not positive, and moves pages below 1 to the first page.
func EnsureLimits[T any](defaultPerPage, maxPerPage int) func(next Paginator[T]) Paginator[T] {
	if defaultPerPage < 1 {
		panic("defaultPerPage must be positive")
	}
	if maxPerPage < defaultPerPage {
		panic("maxPerPage must be greater than or equal to defaultPerPage")
	}
	return func(next Paginator[T]) Paginator[T] {
		return PaginatorFunc[T](func(ctx context.Context, req *Request) (*Page[T], error) {
			req = &Request{Page: req.Page, PerPage: req.PerPage}
			if req.Page < 1 {
				req.Page = 1
			}
			if req.PerPage < 1 {
				req.PerPage = defaultPerPage
			}
			if req.PerPage > maxPerPage {
				req.PerPage = maxPerPage
			}
			return next.Paginate(ctx, req)
		})
	}
}

package catalog

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/theplant/staymarket/filter"
	"github.com/theplant/staymarket/filter/gormfilter"
	"github.com/theplant/staymarket/geo"
	"github.com/theplant/staymarket/pagination"
)

type ListOptions struct {
	// Strict rejects unknown filters and operators and malformed ranges
	// instead of ignoring them.
	Strict bool
	// Limits is checked against the transformed clauses; nil disables it.
	Limits         *filter.Limits
	DefaultPerPage int
	MaxPerPage     int
}

var DefaultListOptions = ListOptions{
	DefaultPerPage: 15,
	MaxPerPage:     100,
}

func (o ListOptions) perPage() (int, int) {
	defaultPerPage := o.DefaultPerPage
	if defaultPerPage < 1 {
		defaultPerPage = DefaultListOptions.DefaultPerPage
	}
	return defaultPerPage, max(o.MaxPerPage, defaultPerPage)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	if db == nil {
		panic("db must be set")
	}
	return &Repository{db: db}
}

type scope = func(db *gorm.DB) *gorm.DB

// listing describes how one resource is listed.
type listing struct {
	spec *filter.Spec
	// params are accepted next to the filters in strict mode
	params []string
	before []scope
	after  []scope
}

// ListProperties lists properties matching the search term, the filters,
// the amenities and the radius given in values.
func (r *Repository) ListProperties(ctx context.Context, values url.Values, opts ListOptions) (*pagination.Page[*Property], error) {
	radius, hasRadius := geo.ParseRadius(values)
	if opts.Strict && !hasRadius && lo.SomeBy(geo.Params(), values.Has) {
		return nil, &filter.ValidationError{Problems: []string{
			"latitude, longitude and radius must be given together as valid coordinates and a positive radius",
		}}
	}

	l := listing{
		spec:   PropertyFilter,
		params: append([]string{SearchParam, AmenitiesParam}, geo.Params()...),
		before: []scope{gormfilter.Search(values.Get(SearchParam), PropertySearchColumns...)},
		after:  []scope{withAmenities(values[AmenitiesParam])},
	}
	if hasRadius {
		l.after = append(l.after, geo.Within(radius, "latitude", "longitude"))
	} else {
		l.after = append(l.after, newestFirst)
	}
	return list[*Property](ctx, r.db, values, opts, l)
}

func (r *Repository) ListBookings(ctx context.Context, values url.Values, opts ListOptions) (*pagination.Page[*Booking], error) {
	return list[*Booking](ctx, r.db, values, opts, listing{
		spec:  BookingFilter,
		after: []scope{newestFirst},
	})
}

func (r *Repository) ListVendors(ctx context.Context, values url.Values, opts ListOptions) (*pagination.Page[*Vendor], error) {
	return list[*Vendor](ctx, r.db, values, opts, listing{
		spec:  VendorFilter,
		after: []scope{newestFirst},
	})
}

func list[T any](ctx context.Context, db *gorm.DB, values url.Values, opts ListOptions, l listing) (*pagination.Page[T], error) {
	query := filter.ParseQuery(values)
	if opts.Strict {
		if err := l.spec.Validate(query, append(l.params, pagination.Params()...)...); err != nil {
			return nil, err
		}
	}

	clauses := l.spec.Clauses(query)
	if err := filter.CheckLimits(clauses, opts.Limits); err != nil {
		return nil, err
	}

	// Scopes are applied right away rather than through db.Scopes: Count
	// must see the final ORDER BY to drop it.
	for _, s := range l.before {
		db = s(db)
	}
	db = gormfilter.Scope(clauses)(db)
	for _, s := range l.after {
		db = s(db)
	}

	defaultPerPage, maxPerPage := opts.perPage()
	p := pagination.New(
		pagination.NewFinder[T](db),
		pagination.EnsureLimits[T](defaultPerPage, maxPerPage),
	)
	page, err := p.Paginate(ctx, pagination.RequestFromValues(values))
	if err != nil {
		return nil, errors.Wrap(err, "paginate")
	}
	return page, nil
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: clause.CurrentTable, Name: "created_at"}, Desc: true},
		{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}},
	}})
}

// withAmenities keeps rows whose amenities contain every requested one.
// Values may be repeated or comma separated.
func withAmenities(values []string) scope {
	amenities := lo.Uniq(lo.Compact(lo.FlatMap(values, func(v string, _ int) []string {
		return lo.Map(strings.Split(v, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
	})))
	return func(db *gorm.DB) *gorm.DB {
		for _, amenity := range amenities {
			db = db.Where(datatypes.JSONArrayQuery("amenities").Contains(amenity))
		}
		return db
	}
}

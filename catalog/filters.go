package catalog

import (
	"github.com/theplant/staymarket/filter"
)

var (
	equality = []filter.Operator{filter.Eq, filter.Ne, filter.In, filter.NotIn}
	ordering = []filter.Operator{filter.Eq, filter.Lt, filter.Lte, filter.Gt, filter.Gte, filter.Btw, filter.NotBtw}
	text     = []filter.Operator{filter.Eq, filter.Like}
	ranges   = []filter.Operator{filter.Lt, filter.Lte, filter.Gt, filter.Gte, filter.Btw}
)

// PropertyFilter lists the filters accepted by the property listing.
var PropertyFilter = filter.NewSpec(
	filter.Field{Param: "vendor_id", Operators: []filter.Operator{filter.Eq, filter.In}},
	filter.Field{Param: "name", Operators: text},
	filter.Field{Param: "city", Operators: []filter.Operator{filter.Eq, filter.Ne, filter.Like, filter.In, filter.NotIn}},
	filter.Field{Param: "category", Operators: equality},
	filter.Field{Param: "status", Operators: equality},
	filter.Field{Param: "price", Operators: ordering, Column: "price_per_night"},
	filter.Field{Param: "bedrooms", Operators: ordering},
	filter.Field{Param: "guests", Operators: []filter.Operator{filter.Eq, filter.Gte, filter.Lte, filter.Btw}, Column: "max_guests"},
	filter.Field{Param: "created_at", Operators: ranges},
)

// BookingFilter lists the filters accepted by the booking listing.
var BookingFilter = filter.NewSpec(
	filter.Field{Param: "property_id", Operators: []filter.Operator{filter.Eq, filter.In}},
	filter.Field{Param: "guest_id", Operators: []filter.Operator{filter.Eq, filter.In}},
	filter.Field{Param: "status", Operators: equality},
	filter.Field{Param: "check_in", Operators: ranges},
	filter.Field{Param: "check_out", Operators: ranges},
	filter.Field{Param: "guests", Operators: []filter.Operator{filter.Eq, filter.Gte, filter.Lte, filter.Btw}},
	filter.Field{Param: "total", Operators: ranges, Column: "total_price"},
	filter.Field{Param: "created_at", Operators: ranges},
)

// VendorFilter lists the filters accepted by the vendor listing.
var VendorFilter = filter.NewSpec(
	filter.Field{Param: "name", Operators: text},
	filter.Field{Param: "email", Operators: text},
	filter.Field{Param: "status", Operators: equality},
	filter.Field{Param: "city", Operators: []filter.Operator{filter.Eq, filter.Like, filter.In}},
	filter.Field{Param: "created_at", Operators: ranges},
)

const (
	// SearchParam is the free-text search parameter of the property listing.
	SearchParam = "search"
	// AmenitiesParam keeps properties offering every listed amenity.
	AmenitiesParam = "amenities"
)

// PropertySearchColumns are matched by SearchParam.
var PropertySearchColumns = []string{"name", "description", "address"}

package geo

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DistanceColumn is the alias of the derived distance column added by Within.
const DistanceColumn = "distance"

// DistanceSQL renders the haversine distance in kilometers between origin
// and the row's latitude/longitude columns. Coordinates are inlined as
// formatted floats so the expression can be used as a raw select column.
func DistanceSQL(db *gorm.DB, origin Point, latColumn, lngColumn string) string {
	lat := db.Statement.Quote(latColumn)
	lng := db.Statement.Quote(lngColumn)
	return fmt.Sprintf(
		"2 * %s * ASIN(LEAST(1, SQRT(POWER(SIN(RADIANS(%s - (%s)) / 2), 2) + COS(RADIANS(%s)) * COS(RADIANS(%s)) * POWER(SIN(RADIANS(%s - (%s)) / 2), 2))))",
		formatFloat(EarthRadiusKm), lat, formatFloat(origin.Lat), formatFloat(origin.Lat), lat, lng, formatFloat(origin.Lng),
	)
}

// DistanceExpr wraps DistanceSQL as a clause expression.
func DistanceExpr(db *gorm.DB, origin Point, latColumn, lngColumn string) clause.Expr {
	return clause.Expr{SQL: "(" + DistanceSQL(db, origin, latColumn, lngColumn) + ")"}
}

// Within keeps rows strictly closer than r.Km to r.Origin, selects the
// distance as DistanceColumn next to the existing columns and orders by it,
// nearest first. Any ordering added afterwards only breaks ties.
//
// Call it directly on queries that are also counted: Count drops ORDER BY
// before deferred db.Scopes run, so the distance ordering would leak into it.
func Within(r Radius, latColumn, lngColumn string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db == nil {
			return nil
		}
		expr := DistanceExpr(db, r.Origin, latColumn, lngColumn)
		db = db.Where(clause.Expr{SQL: expr.SQL + " < ?", Vars: []any{r.Km}})
		db = appendSelect(db, clause.Column{Name: expr.SQL, Alias: DistanceColumn, Raw: true})
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: DistanceColumn}})
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

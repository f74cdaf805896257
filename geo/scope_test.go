package geo_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theplant/testenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/theplant/staymarket/geo"
)

type Place struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Latitude  float64
	Longitude float64
	Distance  *float64 `gorm:"->;-:migration"`
}

var db *gorm.DB

func TestMain(m *testing.M) {
	env, err := testenv.New().DBEnable(true).SetUp()
	if err != nil {
		panic(err)
	}
	defer env.TearDown()

	db = env.DB
	db.Logger = db.Logger.LogMode(logger.Info)

	m.Run()
}

func TestWithinSQL(t *testing.T) {
	r := geo.Radius{Origin: geo.Point{Lat: 0.5, Lng: -9}, Km: 100}

	stmt := db.Model(&Place{}).
		Scopes(geo.Within(r, "latitude", "longitude")).
		Session(&gorm.Session{DryRun: true}).
		Find(&[]Place{})
	require.NoError(t, stmt.Error)

	distance := `(2 * 6371 * ASIN(LEAST(1, SQRT(POWER(SIN(RADIANS("latitude" - (0.5)) / 2), 2) + COS(RADIANS(0.5)) * COS(RADIANS("latitude")) * POWER(SIN(RADIANS("longitude" - (-9)) / 2), 2)))))`
	require.Equal(t,
		`SELECT *,`+distance+` AS "distance" FROM "places" WHERE `+distance+` < $1 ORDER BY "distance"`,
		stmt.Statement.SQL.String(),
	)
	require.Equal(t, []any{float64(100)}, stmt.Statement.Vars)
}

func TestWithinCountKeepsFilter(t *testing.T) {
	r := geo.Radius{Origin: geo.Point{}, Km: 10}

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var count int64
		return geo.Within(r, "latitude", "longitude")(tx.Model(&Place{})).Count(&count)
	})
	assert.Contains(t, sql, `SELECT count(*) FROM "places" WHERE (2 * 6371 * ASIN(`)
	assert.NotContains(t, sql, "ORDER BY")
	assert.NotContains(t, sql, `AS "distance"`)
}

func TestWithin(t *testing.T) {
	require.NoError(t, db.Migrator().DropTable(&Place{}))
	require.NoError(t, db.AutoMigrate(&Place{}))

	places := []*Place{
		{ID: "half-degree", Name: "55km north", Latitude: 0.5, Longitude: 0},
		{ID: "five-degrees", Name: "555km north", Latitude: 5, Longitude: 0},
		{ID: "east", Name: "33km east", Latitude: 0, Longitude: 0.3},
		{ID: "near", Name: "22km north", Latitude: 0.2, Longitude: 0},
		{ID: "south-west", Name: "78km south west", Latitude: -0.5, Longitude: -0.5},
	}
	require.NoError(t, db.Create(&places).Error)

	origin := geo.Point{Lat: 0, Lng: 0}

	var result []*Place
	err := db.Scopes(geo.Within(geo.Radius{Origin: origin, Km: 100}, "latitude", "longitude")).Find(&result).Error
	require.NoError(t, err)

	require.Equal(t, []string{"near", "east", "half-degree", "south-west"}, lo.Map(result, func(p *Place, _ int) string { return p.ID }))
	for _, p := range result {
		require.NotNil(t, p.Distance)
		assert.InDelta(t, geo.Distance(origin, geo.Point{Lat: p.Latitude, Lng: p.Longitude}), *p.Distance, 1e-6)
		assert.Less(t, *p.Distance, 100.0)
	}

	var count int64
	err = geo.Within(geo.Radius{Origin: origin, Km: 60}, "latitude", "longitude")(db.Model(&Place{})).Count(&count).Error
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	var plain []*Place
	require.NoError(t, db.Order("id").Find(&plain).Error)
	require.Len(t, plain, 5)
	require.Nil(t, plain[0].Distance)
}

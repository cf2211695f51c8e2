package coverage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/covermap/covermap/internal/errors"
	"github.com/covermap/covermap/internal/geo"
)

// kmPerDegreeLat converts a northward offset in km to degrees of latitude on
// the haversine sphere, so test sites sit at exact known distances.
const kmPerDegreeLat = 6371 * math.Pi / 180

func siteAtKmNorth(origin geo.Point, km float64, tech TechFlags) Site {
	return Site{
		Coords: geo.Point{Lon: origin.Lon, Lat: origin.Lat + km/kmPerDegreeLat},
		Tech:   tech,
	}
}

var testThresholds = Thresholds{MaxDistanceKm: 20, SatisfactoryDistanceKm: 5}

func TestResolve_NearestSitePerOperator(t *testing.T) {
	query := geo.Point{Lon: 2.35, Lat: 48.85}
	catalog := Catalog{
		20801: {
			siteAtKmNorth(query, 12, TechFlags{Has2G: true}),
			siteAtKmNorth(query, 8, TechFlags{Has4G: true}),
		},
		20810: {
			siteAtKmNorth(query, 19, TechFlags{Has3G: true}),
		},
	}

	result, err := NewResolver(DefaultOperators(), testThresholds).Resolve(catalog, query)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.InDelta(t, 8, result["Orange"].DistanceKm, 1e-6)
	assert.True(t, result["Orange"].Tech.Has4G)
	assert.InDelta(t, 19, result["SFR"].DistanceKm, 1e-6)
}

func TestResolve_EarlyExitAcceptsFirstSatisfactorySite(t *testing.T) {
	query := geo.Point{Lon: 2.35, Lat: 48.85}
	catalog := Catalog{
		20801: {
			siteAtKmNorth(query, 3, TechFlags{Has2G: true}),
			// Closer, but never inspected: the 3 km site already satisfies
			// the 5 km threshold.
			siteAtKmNorth(query, 0.2, TechFlags{Has4G: true}),
		},
	}

	result, err := NewResolver(DefaultOperators(), testThresholds).Resolve(catalog, query)
	require.NoError(t, err)

	assert.InDelta(t, 3, result["Orange"].DistanceKm, 1e-6)
	assert.True(t, result["Orange"].Tech.Has2G)
	assert.False(t, result["Orange"].Tech.Has4G)
}

func TestResolve_SitesBeyondMaxAreNotCandidates(t *testing.T) {
	query := geo.Point{Lon: 2.35, Lat: 48.85}
	catalog := Catalog{
		20801: {
			siteAtKmNorth(query, 25, TechFlags{Has2G: true}),
			siteAtKmNorth(query, 18, TechFlags{Has3G: true}),
		},
		20810: {
			siteAtKmNorth(query, 40, TechFlags{Has4G: true}),
		},
	}

	result, err := NewResolver(DefaultOperators(), testThresholds).Resolve(catalog, query)
	require.NoError(t, err)

	// SFR has no candidate and is simply absent, not an error.
	require.Len(t, result, 1)
	assert.InDelta(t, 18, result["Orange"].DistanceKm, 1e-6)
	assert.LessOrEqual(t, result["Orange"].DistanceKm, testThresholds.MaxDistanceKm)
}

func TestResolve_NoCoverageAnywhereFails(t *testing.T) {
	query := geo.Point{Lon: 2.35, Lat: 48.85}
	catalog := Catalog{
		20801: {siteAtKmNorth(query, 50, TechFlags{})},
		20810: {siteAtKmNorth(query, 120, TechFlags{})},
		20815: {},
	}

	result, err := NewResolver(DefaultOperators(), testThresholds).Resolve(catalog, query)

	require.Error(t, err)
	assert.Nil(t, result)
	appErr := errors.AsAppError(err)
	assert.Equal(t, "NO_COVERAGE", appErr.Code)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestResolve_FirstSeenWinsTies(t *testing.T) {
	query := geo.Point{Lon: 2.35, Lat: 48.85}
	north := Site{
		Coords: geo.Point{Lon: query.Lon, Lat: query.Lat + 10/kmPerDegreeLat},
		Tech:   TechFlags{Has2G: true},
	}
	south := Site{
		Coords: geo.Point{Lon: query.Lon, Lat: query.Lat - 10/kmPerDegreeLat},
		Tech:   TechFlags{Has4G: true},
	}
	catalog := Catalog{20801: {north, south}}

	result, err := NewResolver(DefaultOperators(), testThresholds).Resolve(catalog, query)
	require.NoError(t, err)

	// Equal distances: the site seen first in scan order is kept.
	assert.Equal(t, north.Coords, result["Orange"].Coords)
	assert.True(t, result["Orange"].Tech.Has2G)
}

func TestResolve_Idempotent(t *testing.T) {
	query := geo.Point{Lon: 2.35, Lat: 48.85}
	catalog := Catalog{
		20801: {
			siteAtKmNorth(query, 12, TechFlags{Has2G: true}),
			siteAtKmNorth(query, 3, TechFlags{Has4G: true}),
		},
	}
	resolver := NewResolver(DefaultOperators(), testThresholds)

	first, err := resolver.Resolve(catalog, query)
	require.NoError(t, err)
	second, err := resolver.Resolve(catalog, query)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_UnknownOperatorInCatalog(t *testing.T) {
	query := geo.Point{Lon: 2.35, Lat: 48.85}
	catalog := Catalog{31337: {siteAtKmNorth(query, 1, TechFlags{})}}

	_, err := NewResolver(DefaultOperators(), testThresholds).Resolve(catalog, query)

	require.Error(t, err)
	assert.Equal(t, "UNKNOWN_OPERATOR", errors.AsAppError(err).Code)
}

func TestResolve_SyntheticOperatorTable(t *testing.T) {
	query := geo.Point{Lon: 0, Lat: 45}
	operators := OperatorTable{1: "TestNet"}
	catalog := Catalog{1: {siteAtKmNorth(query, 2, TechFlags{Has3G: true})}}

	result, err := NewResolver(operators, testThresholds).Resolve(catalog, query)
	require.NoError(t, err)

	assert.Contains(t, result, "TestNet")
}

package coverage

import (
	"github.com/covermap/covermap/internal/errors"
	"github.com/covermap/covermap/internal/geo"
)

// Thresholds bound the nearest-site search.
type Thresholds struct {
	// MaxDistanceKm is the largest distance at which a site still counts as
	// coverage for the query point.
	MaxDistanceKm float64
	// SatisfactoryDistanceKm stops the scan for an operator once a site this
	// close has been found: close enough is treated as best.
	SatisfactoryDistanceKm float64
}

// OperatorResult is the closest qualifying site of one operator.
type OperatorResult struct {
	DistanceKm float64   `json:"distance_km"`
	Coords     geo.Point `json:"coords"`
	Tech       TechFlags `json:"coverage"`
}

// Result maps operator display names to their closest qualifying site.
type Result map[string]OperatorResult

// Resolver finds, per operator, the closest coverage site within the
// configured distance bound. Purely functional per call; safe for concurrent
// use against a shared catalog.
type Resolver struct {
	operators  OperatorTable
	thresholds Thresholds
}

// NewResolver creates a resolver for the given operator table and thresholds.
func NewResolver(operators OperatorTable, thresholds Thresholds) *Resolver {
	return &Resolver{operators: operators, thresholds: thresholds}
}

// Resolve scans each operator's site sequence in stored order and keeps the
// first strictly closer candidate within MaxDistanceKm, stopping early once a
// site is within SatisfactoryDistanceKm. Operators without a candidate are
// absent from the result; if no operator has one, the call fails with a
// no-coverage error.
func (r *Resolver) Resolve(catalog Catalog, query geo.Point) (Result, error) {
	result := make(Result)

	for code, sites := range catalog {
		name, known := r.operators[code]
		if !known {
			return nil, errors.NewUnknownOperatorError(int(code))
		}

		best, found := r.closestSite(sites, query)
		if found {
			result[name] = best
		}
	}

	if len(result) == 0 {
		return nil, errors.NewNoCoverageError(r.thresholds.MaxDistanceKm)
	}
	return result, nil
}

func (r *Resolver) closestSite(sites []Site, query geo.Point) (OperatorResult, bool) {
	var best OperatorResult
	found := false

	for _, site := range sites {
		distance := geo.Haversine(query, site.Coords)
		if distance > r.thresholds.MaxDistanceKm {
			continue
		}

		// Strictly-smaller comparison: an equal-distance site seen later
		// never replaces the first one.
		if !found || distance < best.DistanceKm {
			best = OperatorResult{
				DistanceKm: distance,
				Coords:     site.Coords,
				Tech:       site.Tech,
			}
			found = true
		}

		if distance <= r.thresholds.SatisfactoryDistanceKm {
			break
		}
	}

	return best, found
}

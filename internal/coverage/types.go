// Package coverage implements the coverage resolution engine: building the
// operator-grouped site catalog from the survey dataset and resolving the
// nearest covered site per operator for a query point.
package coverage

import (
	"github.com/covermap/covermap/internal/geo"
)

// OperatorCode is the integer operator identifier used by the survey dataset
// (French MCC+MNC, e.g. 20801 for Orange).
type OperatorCode int

// OperatorTable maps known operator codes to display names. Any dataset code
// outside the table is a fatal data-integrity error.
type OperatorTable map[OperatorCode]string

// DefaultOperators returns the operator table of the reference deployment.
func DefaultOperators() OperatorTable {
	return OperatorTable{
		20801: "Orange",
		20810: "SFR",
		20815: "Free",
		20820: "Bouygues Telecom",
	}
}

// TechFlags records which radio technologies a site offers.
type TechFlags struct {
	Has2G bool `json:"2G"`
	Has3G bool `json:"3G"`
	Has4G bool `json:"4G"`
}

// Site is one coverage site of the catalog. Immutable once constructed; the
// native Lambert-93 coordinates are kept for diagnostic display.
type Site struct {
	NativeX float64   `json:"native_x"`
	NativeY float64   `json:"native_y"`
	Coords  geo.Point `json:"coords"`
	Tech    TechFlags `json:"coverage"`
}

// Catalog groups projected sites by operator in dataset order. Built once per
// process and shared read-only by all queries; no field is mutated after
// construction, so unsynchronized concurrent reads are safe.
type Catalog map[OperatorCode][]Site

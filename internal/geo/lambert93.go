package geo

import "math"

// Lambert-93 (EPSG:2154) parameters: Lambert Conformal Conic with two
// standard parallels on the GRS80 ellipsoid. These constants define the
// coordinate system of the survey dataset and must not become configuration;
// changing them silently corrupts every projected coordinate.
const (
	grs80A    = 6378137.0     // semi-major axis, meters
	grs80InvF = 298.257222101 // inverse flattening

	lambertLat0 = 46.5 // latitude of origin, degrees
	lambertLat1 = 49.0 // first standard parallel, degrees
	lambertLat2 = 44.0 // second standard parallel, degrees
	lambertLon0 = 3.0  // central meridian, degrees

	lambertFalseEasting  = 700000.0  // meters
	lambertFalseNorthing = 6600000.0 // meters
)

const deg = math.Pi / 180

var (
	grs80E = math.Sqrt((2 - 1/grs80InvF) / grs80InvF)

	lccN, lccAF, lccRho0 = lccConstants()
)

// lccConstants derives the cone constant n, the scaled radius a*F and the
// origin radius rho0 from the fixed projection parameters.
func lccConstants() (n, af, rho0 float64) {
	m1 := lccM(lambertLat1 * deg)
	m2 := lccM(lambertLat2 * deg)
	t0 := lccT(lambertLat0 * deg)
	t1 := lccT(lambertLat1 * deg)
	t2 := lccT(lambertLat2 * deg)

	n = (math.Log(m1) - math.Log(m2)) / (math.Log(t1) - math.Log(t2))
	af = grs80A * m1 / (n * math.Pow(t1, n))
	rho0 = af * math.Pow(t0, n)
	return n, af, rho0
}

func lccM(phi float64) float64 {
	s := math.Sin(phi)
	return math.Cos(phi) / math.Sqrt(1-grs80E*grs80E*s*s)
}

func lccT(phi float64) float64 {
	s := math.Sin(phi)
	return math.Tan(math.Pi/4-phi/2) /
		math.Pow((1-grs80E*s)/(1+grs80E*s), grs80E/2)
}

// ToWGS84 converts Lambert-93 easting/northing in meters to geographic
// longitude/latitude in decimal degrees. Pure function; behavior for NaN or
// infinite input is undefined and must be guarded by the caller.
func ToWGS84(x, y float64) (lon, lat float64) {
	dx := x - lambertFalseEasting
	dy := lccRho0 - (y - lambertFalseNorthing)

	rho := math.Sqrt(dx*dx + dy*dy)
	if lccN < 0 {
		rho = -rho
	}
	theta := math.Atan2(dx, dy)

	t := math.Pow(rho/lccAF, 1/lccN)
	phi := math.Pi/2 - 2*math.Atan(t)
	for i := 0; i < 15; i++ {
		s := math.Sin(phi)
		next := math.Pi/2 - 2*math.Atan(t*math.Pow((1-grs80E*s)/(1+grs80E*s), grs80E/2))
		if math.Abs(next-phi) < 1e-12 {
			phi = next
			break
		}
		phi = next
	}

	lon = theta/lccN/deg + lambertLon0
	lat = phi / deg
	return lon, lat
}

// FromWGS84 converts geographic longitude/latitude in decimal degrees to
// Lambert-93 easting/northing in meters. Inverse of ToWGS84; used by the
// round-trip tests and for generating synthetic datasets.
func FromWGS84(lon, lat float64) (x, y float64) {
	rho := lccAF * math.Pow(lccT(lat*deg), lccN)
	theta := lccN * (lon - lambertLon0) * deg

	x = lambertFalseEasting + rho*math.Sin(theta)
	y = lambertFalseNorthing + lccRho0 - rho*math.Cos(theta)
	return x, y
}

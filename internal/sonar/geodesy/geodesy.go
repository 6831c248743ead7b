// Package geodesy provides the forward-positioning primitive used to turn a
// beam's relative across/along-track offsets into absolute geographic
// coordinates.
//
// All computations use the WGS-84 reference ellipsoid with Vincenty's
// direct formula. The ellipsoid choice is fixed so a survey file always
// reprocesses to identical coordinates.
package geodesy

import "math"

// WGS-84 ellipsoid parameters.
const (
	SemiMajorAxis = 6378137.0         // metres
	Flattening    = 1 / 298.257223563 // dimensionless
)

const degToRad = math.Pi / 180.0

// PositionFromBearingDxDy computes the destination of a planar offset
// (dx, dy) from an origin, where dx is the across-track offset
// (perpendicular to the bearing, positive to starboard) and dy is the
// along-track offset (parallel to the bearing, positive ahead). The axis
// mapping must match the echosounder's beam geometry: swapping dx and dy
// corrupts every output coordinate.
//
// Returns (lon, lat) in degrees, matching the argument order convention of
// the origin.
func PositionFromBearingDxDy(originLon, originLat, bearingDeg, dx, dy float64) (lon, lat float64) {
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return originLon, originLat
	}

	// Rotate the offset into an absolute bearing: atan2(dx, dy) is the
	// offset's own direction relative to the vessel heading.
	brg := bearingDeg + math.Atan2(dx, dy)/degToRad

	lat, lon = Direct(originLat, originLon, brg, dist)
	return lon, lat
}

// Direct solves the geodetic direct problem on the WGS-84 ellipsoid:
// starting at (lat1, lon1) degrees and travelling distance metres along the
// initial bearing bearingDeg, it returns the destination (lat2, lon2) in
// degrees. Implements Vincenty's direct formula.
func Direct(lat1, lon1, bearingDeg, distance float64) (lat2, lon2 float64) {
	a := SemiMajorAxis
	f := Flattening
	b := a * (1 - f)

	alpha1 := bearingDeg * degToRad
	sinAlpha1 := math.Sin(alpha1)
	cosAlpha1 := math.Cos(alpha1)

	tanU1 := (1 - f) * math.Tan(lat1*degToRad)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha
	uSq := cosSqAlpha * (a*a - b*b) / (b * b)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	sigma := distance / (b * A)
	var sinSigma, cosSigma, cos2SigmaM float64
	for i := 0; i < 100; i++ {
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		sinSigma = math.Sin(sigma)
		cosSigma = math.Cos(sigma)
		deltaSigma := B * sinSigma * (cos2SigmaM + B/4*
			(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
				B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
		sigmaNext := distance/(b*A) + deltaSigma
		if math.Abs(sigmaNext-sigma) < 1e-12 {
			sigma = sigmaNext
			break
		}
		sigma = sigmaNext
	}
	cos2SigmaM = math.Cos(2*sigma1 + sigma)
	sinSigma = math.Sin(sigma)
	cosSigma = math.Cos(sigma)

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	lat2 = math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-f)*math.Sqrt(sinAlpha*sinAlpha+tmp*tmp)) / degToRad

	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	C := f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
	L := lambda - (1-C)*f*sinAlpha*
		(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	lon2 = lon1 + L/degToRad
	if lon2 > 180 {
		lon2 -= 360
	} else if lon2 < -180 {
		lon2 += 360
	}

	return lat2, lon2
}

// Package geo computes ellipsoidal surface distances on WGS84.
//
// Distance uses Vincenty's inverse formula. For nearly antipodal points the
// iteration can fail to converge; those pairs fall back to the spherical
// haversine distance, which is within 0.5% of the geodesic there.
package geo

import (
	"math"

	"drone-route-service/internal/domain"

	orbgeo "github.com/paulmach/orb/geo"
)

const (
	// WGS84 semi-major axis (m) and flattening.
	wgs84A = 6378137.0
	wgs84F = 1 / 298.257223563
	wgs84B = wgs84A * (1 - wgs84F)

	maxIterations = 200
	convergence   = 1e-12
)

// Distance returns the geodesic distance in metres between a and b.
func Distance(a, b domain.Coordinates) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}
	if err := b.Validate(); err != nil {
		return 0, err
	}
	// Order the pair so the result does not depend on argument order.
	if less(b, a) {
		a, b = b, a
	}
	d, ok := vincentyInverse(a, b)
	if !ok {
		return orbgeo.DistanceHaversine(a.Point(), b.Point()), nil
	}
	return d, nil
}

func less(a, b domain.Coordinates) bool {
	if a.Lat != b.Lat {
		return a.Lat < b.Lat
	}
	return a.Lon < b.Lon
}

func vincentyInverse(p1, p2 domain.Coordinates) (float64, bool) {
	phi1 := p1.Lat * math.Pi / 180
	phi2 := p2.Lat * math.Pi / 180
	L := (p2.Lon - p1.Lon) * math.Pi / 180

	U1 := math.Atan((1 - wgs84F) * math.Tan(phi1))
	U2 := math.Atan((1 - wgs84F) * math.Tan(phi2))
	sinU1, cosU1 := math.Sincos(U1)
	sinU2, cosU2 := math.Sincos(U2)

	lambda := L
	var (
		sinSigma, cosSigma, sigma float64
		cosSqAlpha, cos2SigmaM    float64
	)
	for i := 0; ; i++ {
		if i >= maxIterations {
			return 0, false
		}
		sinLambda, cosLambda := math.Sincos(lambda)
		t1 := cosU2 * sinLambda
		t2 := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt(t1*t1 + t2*t2)
		if sinSigma == 0 {
			// coincident points
			return 0, true
		}
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		} else {
			// equatorial line
			cos2SigmaM = 0
		}
		C := wgs84F / 16 * cosSqAlpha * (4 + wgs84F*(4-3*cosSqAlpha))
		prev := lambda
		lambda = L + (1-C)*wgs84F*sinAlpha*
			(sigma+C*sinSigma*(cos2SigmaM+C*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))
		if math.Abs(lambda-prev) <= convergence {
			break
		}
		if math.Abs(lambda) > math.Pi {
			return 0, false
		}
	}

	uSq := cosSqAlpha * (wgs84A*wgs84A - wgs84B*wgs84B) / (wgs84B * wgs84B)
	A := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	B := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	deltaSigma := B * sinSigma * (cos2SigmaM + B/4*(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
		B/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))

	return wgs84B * A * (sigma - deltaSigma), true
}

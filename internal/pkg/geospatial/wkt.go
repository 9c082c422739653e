package geospatial

import (
	"regexp"
	"strconv"

	"github.com/avelarde/rentmap/internal/core/domain"
)

// SRID is the WGS 84 spatial reference identifier used for every stored point.
const SRID = 4326

// KmPerDegree is the flat-earth approximation used to convert a linear
// search radius to an angular one: one degree of latitude ≈ 111 km. This is
// accurate near the equator and increasingly wrong near the poles; it is the
// documented behavior of the radius filter, not a bug.
const KmPerDegree = 111.0

// pointPattern matches the canonical WKT form "POINT(<lon> <lat>)", with an
// optional EWKT SRID prefix as produced by EncodePoint.
var pointPattern = regexp.MustCompile(`^(?:SRID=4326;)?POINT\(([^ ]+) ([^ ]+)\)$`)

// EncodePoint renders a point as an EWKT literal, longitude first, tagged
// with SRID 4326: "SRID=4326;POINT(<lon> <lat>)". The literal is what gets
// bound into ST_GeogFromText on the write path, so the stored column keeps
// the exact wire format.
func EncodePoint(p domain.GeoPoint) string {
	return "SRID=4326;POINT(" +
		strconv.FormatFloat(p.Longitude, 'f', -1, 64) + " " +
		strconv.FormatFloat(p.Latitude, 'f', -1, 64) + ")"
}

// DecodePoint parses the textual point form returned by ST_AsText back into
// a GeoPoint. It returns *domain.MalformedPointError when the text does not
// match the pattern or either component fails numeric parsing; callers
// substitute the origin point and report the condition rather than failing
// the whole listing.
func DecodePoint(text string) (domain.GeoPoint, error) {
	m := pointPattern.FindStringSubmatch(text)
	if m == nil {
		return domain.GeoPoint{}, &domain.MalformedPointError{Text: text}
	}

	lon, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domain.GeoPoint{}, &domain.MalformedPointError{Text: text}
	}
	lat, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return domain.GeoPoint{}, &domain.MalformedPointError{Text: text}
	}

	return domain.GeoPoint{Longitude: lon, Latitude: lat}, nil
}

// DegreesFromKilometers converts a linear distance to decimal degrees using
// the fixed km-per-degree constant.
func DegreesFromKilometers(km float64) float64 {
	return km / KmPerDegree
}

// Package geo builds the LineString geometry that traces a route through its
// stops. Geometry is stored as WKB and served as GeoJSON.
package geo

import (
	"encoding/binary"
	"fmt"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// Point is a WGS84 coordinate.
type Point struct {
	Latitude  float64
	Longitude float64
}

// EncodePath returns the WKB LineString through points in order.
// Fewer than two points cannot form a line and yield nil.
func EncodePath(points []Point) ([]byte, error) {
	if len(points) < 2 {
		return nil, nil
	}
	coords := make([]geom.Coord, len(points))
	for i, p := range points {
		// GeoJSON and WKB use x = longitude, y = latitude.
		coords[i] = geom.Coord{p.Longitude, p.Latitude}
	}
	ls, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, fmt.Errorf("build path: %w", err)
	}
	return wkb.Marshal(ls, binary.LittleEndian)
}

// DecodePath reads the points back out of a WKB LineString.
func DecodePath(wkbBytes []byte) ([]Point, error) {
	if len(wkbBytes) == 0 {
		return nil, nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return nil, err
	}
	ls, ok := g.(*geom.LineString)
	if !ok {
		return nil, fmt.Errorf("path is a %T, want LineString", g)
	}
	points := make([]Point, ls.NumCoords())
	for i := range points {
		c := ls.Coord(i)
		points[i] = Point{Latitude: c.Y(), Longitude: c.X()}
	}
	return points, nil
}

// PathGeoJSON converts WKB bytes into a GeoJSON geometry string.
func PathGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

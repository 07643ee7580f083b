package suggest

import (
	"sort"

	"github.com/tidwall/rtree"

	"github.com/dharmasatrya/flightfinder/internal/airports"
)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Nearby is an indexed point with its distance from the query.
type Nearby struct {
	Point
	Miles float64
}

// Index is a spatial index over catalog coordinates. Points are stored as
// [lat, lon] rectangles of zero size.
type Index struct {
	tree rtree.RTreeG[Point]
	size int
}

func NewIndex(list []airports.Airport) *Index {
	idx := &Index{}
	for _, a := range list {
		if !a.HasCoordinates() {
			continue
		}
		p := Point{Lat: a.Latitude, Lon: a.Longitude}
		idx.tree.Insert([2]float64{p.Lat, p.Lon}, [2]float64{p.Lat, p.Lon}, p)
		idx.size++
	}
	return idx
}

func (idx *Index) Len() int {
	return idx.size
}

// Within returns the indexed points no farther than radiusMiles from
// target, nearest first.
func (idx *Index) Within(target Point, radiusMiles float64) []Nearby {
	minLat, minLon, maxLat, maxLon := BoundingBox(target.Lat, target.Lon, radiusMiles)
	if maxLon-minLon >= 360 {
		minLon, maxLon = -180, 180
	}

	var out []Nearby
	collect := func(min, max [2]float64, p Point) bool {
		d := Haversine(target.Lat, target.Lon, p.Lat, p.Lon)
		if d <= radiusMiles {
			out = append(out, Nearby{Point: p, Miles: d})
		}
		return true
	}

	idx.tree.Search([2]float64{minLat, minLon}, [2]float64{maxLat, maxLon}, collect)
	// wrap around the antimeridian
	if minLon < -180 {
		idx.tree.Search([2]float64{minLat, minLon + 360}, [2]float64{maxLat, 180}, collect)
	}
	if maxLon > 180 {
		idx.tree.Search([2]float64{minLat, -180}, [2]float64{maxLat, maxLon - 360}, collect)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Miles < out[j].Miles
	})
	return out
}

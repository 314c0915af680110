// Package geo implements GeoIndex: a globally ordered set of district
// polygons and deterministic point-in-polygon classification.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package geo

import (
	"fmt"
	"io"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

var js = jsoniter.ConfigFastest

// Point is a (lon, lat) pair, matching the GeoJSON coordinate order.
type Point struct {
	Lon, Lat float64
}

// Ring is a closed simple polygon ring, first point not required to repeat
// last.
type Ring []Point

// District is one simple polygon with a borough-encoded index. Index encodes
// borough membership: borough_id = index / 10000; polygons within one
// borough carry successive index values starting from borough_id*10000+1.
type District struct {
	Index   int
	Name    string
	Polygon Ring
}

// contains reports whether p lies inside d's polygon using ray casting.
// Edge-on-boundary behavior is deterministic (it depends only on floating
// point comparisons below) but otherwise unspecified, per spec.
func (d *District) contains(p Point) bool {
	return rayCast(d.Polygon, p)
}

// rayCast is the standard even-odd rule point-in-polygon test.
func rayCast(ring Ring, p Point) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat
		if (yi > p.Lat) != (yj > p.Lat) {
			xIntersect := (xj-xi)*(p.Lat-yi)/(yj-yi) + xi
			if p.Lon < xIntersect {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Index is the immutable, ascending-by-Index ordered collection of
// Districts loaded once at worker startup. It is safe for concurrent
// readers after construction: Classify neither mutates Index nor any
// District.
type Index struct {
	districts []District
}

// Classify scans districts in ascending Index order and returns the index of
// the first polygon containing (lon, lat), or (0, false) if none does. The
// ascending scan order is the deterministic tie-break for polygons that
// share a boundary.
func (ix *Index) Classify(lon, lat float64) (districtIndex int, ok bool) {
	p := Point{Lon: lon, Lat: lat}
	for i := range ix.districts {
		if ix.districts[i].contains(p) {
			return ix.districts[i].Index, true
		}
	}
	return 0, false
}

// Districts returns the ordered backing slice (read-only use).
func (ix *Index) Districts() []District { return ix.districts }

// Len reports the number of loaded districts.
func (ix *Index) Len() int { return len(ix.districts) }

//
// GeoJSON loading
//

type geojsonFC struct {
	Features []geojsonFeature `json:"features"`
}

type geojsonFeature struct {
	Properties map[string]jsoniter.RawMessage `json:"properties"`
	Geometry   geojsonGeometry                `json:"geometry"`
}

type geojsonGeometry struct {
	Type        string          `json:"type"`
	Coordinates jsoniter.RawMessage `json:"coordinates"`
}

// LoadFile opens filename and delegates to Load.
func LoadFile(filename string) (*Index, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load reads a standard GeoJSON FeatureCollection whose feature properties
// carry either `boro_name`/`boro_code` (borough-level polygons) or `boro_cd`
// (community-district polygons) -- both shapes the original dataset ships,
// per original_source/taxi/geo.py. MultiPolygons are exploded into individual
// polygons, each assigned the next sequential index within its borough
// group; Polygons are rejected as not present in the reference dataset,
// matching the original loader.
func Load(r io.Reader) (*Index, error) {
	var fc geojsonFC
	dec := js.NewDecoder(r)
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("geo: decode feature collection: %w", err)
	}

	type group struct {
		base int
		name string
		next int // next sequential offset within the group
	}
	groups := map[string]*group{}

	var out []District
	for _, feat := range fc.Features {
		base, name, key, err := featureIdentity(feat.Properties)
		if err != nil {
			return nil, err
		}
		g, ok := groups[key]
		if !ok {
			g = &group{base: base, name: name}
			groups[key] = g
		}

		switch feat.Geometry.Type {
		case "Polygon":
			return nil, fmt.Errorf("geo: bare Polygon geometry for %q not supported, expected MultiPolygon", name)
		case "MultiPolygon":
			var polys [][][][2]float64
			if err := js.Unmarshal(feat.Geometry.Coordinates, &polys); err != nil {
				return nil, fmt.Errorf("geo: decode MultiPolygon for %q: %w", name, err)
			}
			for _, poly := range polys {
				g.next++
				out = append(out, District{
					Index:   g.base + g.next,
					Name:    name,
					Polygon: exteriorRing(poly),
				})
			}
		default:
			return nil, fmt.Errorf("geo: unsupported geometry type %q", feat.Geometry.Type)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return &Index{districts: out}, nil
}

// featureIdentity derives (base index, name, group-key) from a feature's
// properties, auto-detecting whether it is a borough-level or
// community-district-level feature. base is the index offset that the
// polygon-within-feature sequential counter is added to; in both cases
// base+n yields an index whose borough_id (index/10000) matches the
// feature's borough, per spec.md §3.
func featureIdentity(props map[string]jsoniter.RawMessage) (base int, name, key string, err error) {
	if raw, ok := props["boro_name"]; ok {
		if err = js.Unmarshal(raw, &name); err != nil {
			return 0, "", "", fmt.Errorf("geo: decode boro_name: %w", err)
		}
		var code int
		if raw, ok := props["boro_code"]; ok {
			if err = js.Unmarshal(raw, &code); err != nil {
				return 0, "", "", fmt.Errorf("geo: decode boro_code: %w", err)
			}
		}
		return code * 10000, name, "boro:" + name, nil
	}
	if raw, ok := props["boro_cd"]; ok {
		var cd int
		if err = js.Unmarshal(raw, &cd); err != nil {
			return 0, "", "", fmt.Errorf("geo: decode boro_cd: %w", err)
		}
		name = fmt.Sprintf("Community District %d", cd)
		return cd * 100, name, fmt.Sprintf("cd:%d", cd), nil
	}
	return 0, "", "", fmt.Errorf("geo: feature missing boro_name/boro_cd property")
}

func exteriorRing(poly [][][2]float64) Ring {
	if len(poly) == 0 {
		return nil
	}
	ext := poly[0] // first ring is exterior, per GeoJSON convention; holes ignored for containment
	ring := make(Ring, len(ext))
	for i, c := range ext {
		ring[i] = Point{Lon: c[0], Lat: c[1]}
	}
	return ring
}

package geo

import (
	"strings"
	"testing"
)

const sampleFC = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"boro_name": "Manhattan", "boro_code": 1},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [[[[0,0],[0,10],[10,10],[10,0],[0,0]]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"boro_name": "Bronx", "boro_code": 2},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [[[[20,20],[20,30],[30,30],[30,20],[20,20]]]]
      }
    }
  ]
}`

const sampleCD = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"boro_cd": 101},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [[[[0,0],[0,10],[10,10],[10,0],[0,0]]]]
      }
    }
  ]
}`

func TestClassifyInsideOutside(t *testing.T) {
	idx, err := Load(strings.NewReader(sampleFC))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}

	if got, ok := idx.Classify(5, 5); !ok || got != 10001 {
		t.Errorf("Classify(5,5) = (%d,%v), want (10001,true)", got, ok)
	}
	if got, ok := idx.Classify(25, 25); !ok || got != 20001 {
		t.Errorf("Classify(25,25) = (%d,%v), want (20001,true)", got, ok)
	}
	if _, ok := idx.Classify(1000, 1000); ok {
		t.Errorf("Classify(1000,1000) = ok, want not found")
	}
}

func TestCommunityDistrictIndex(t *testing.T) {
	idx, err := Load(strings.NewReader(sampleCD))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", idx.Len())
	}
	d := idx.Districts()[0]
	if d.Index != 10101 {
		t.Errorf("Index = %d, want 10101 (boro_cd 101 * 100 + 1)", d.Index)
	}
}

func TestLoadRejectsBarePolygon(t *testing.T) {
	const bad = `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"boro_name":"X","boro_code":9},
		 "geometry":{"type":"Polygon","coordinates":[[[0,0],[0,1],[1,1],[1,0]]]}}
	]}`
	if _, err := Load(strings.NewReader(bad)); err == nil {
		t.Errorf("Load accepted a bare Polygon geometry, want error")
	}
}

func TestDeterministicTieBreak(t *testing.T) {
	// Two overlapping squares: Classify must always return the first
	// (ascending Index) match, regardless of insertion order in the source.
	const overlap = `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type":"Feature","properties":{"boro_name":"A","boro_code":1},
	     "geometry":{"type":"MultiPolygon","coordinates":[[[[0,0],[0,10],[10,10],[10,0],[0,0]]]]}},
	    {"type":"Feature","properties":{"boro_name":"B","boro_code":2},
	     "geometry":{"type":"MultiPolygon","coordinates":[[[[5,5],[5,15],[15,15],[15,5],[5,5]]]]}}
	  ]
	}`
	idx, err := Load(strings.NewReader(overlap))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := idx.Classify(6, 6)
	if !ok || got != 10001 {
		t.Errorf("Classify(6,6) = (%d,%v), want (10001,true) -- lowest index wins on overlap", got, ok)
	}
}

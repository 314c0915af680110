package mapper

import (
	"strings"
	"testing"

	"github.com/NVIDIA/aistore/geo"
	"github.com/NVIDIA/aistore/record"
	"github.com/NVIDIA/aistore/stat"
)

const testFC = `{
  "type": "FeatureCollection",
  "features": [
    {"type":"Feature","properties":{"boro_name":"Manhattan","boro_code":1},
     "geometry":{"type":"MultiPolygon","coordinates":[[[[-74,40],[-74,41],[-73,41],[-73,40],[-74,40]]]]}},
    {"type":"Feature","properties":{"boro_name":"Bronx","boro_code":2},
     "geometry":{"type":"MultiPolygon","coordinates":[[[[-76,42],[-76,43],[-75,43],[-75,42],[-76,42]]]]}}
  ]
}`

func testIndex(t *testing.T) *geo.Index {
	t.Helper()
	idx, err := geo.Load(strings.NewReader(testFC))
	if err != nil {
		t.Fatalf("geo.Load: %v", err)
	}
	return idx
}

// pickup/dropoff both inside Manhattan: both counters increment, record valid.
func TestMapFieldsBothLocatable(t *testing.T) {
	idx := testIndex(t)
	m := New(idx)
	c := stat.NewCounter("yellow", 2016, 1)

	f := record.Fields{
		PickupEpoch: 0, DropoffEpoch: 600,
		PickupLon: -73.5, PickupLat: 40.5,
		DropoffLon: -73.6, DropoffLat: 40.6,
		TripDistance: 3, FareAmount: 12,
	}
	m.mapFields(f, c)

	if c.Total != 1 || c.Invalid != 0 {
		t.Fatalf("Total/Invalid = %d/%d, want 1/0", c.Total, c.Invalid)
	}
	if c.Pickups[10001] != 1 || c.Dropoffs[10001] != 1 {
		t.Errorf("Pickups/Dropoffs[10001] = %d/%d, want 1/1", c.Pickups[10001], c.Dropoffs[10001])
	}
	if c.Hour[0] != 1 {
		t.Errorf("Hour[0] = %d, want 1", c.Hour[0])
	}
}

// pickup locatable, dropoff not: still a valid, partially-counted record.
func TestMapFieldsOneEndpointLocatable(t *testing.T) {
	idx := testIndex(t)
	m := New(idx)
	c := stat.NewCounter("yellow", 2016, 1)

	f := record.Fields{
		PickupEpoch: 0, DropoffEpoch: 300,
		PickupLon: -73.5, PickupLat: 40.5,
		DropoffLon: 0, DropoffLat: 0,
		TripDistance: 1, FareAmount: 5,
	}
	m.mapFields(f, c)

	if c.Total != 1 || c.Invalid != 0 {
		t.Fatalf("Total/Invalid = %d/%d, want 1/0", c.Total, c.Invalid)
	}
	if c.Pickups[10001] != 1 {
		t.Errorf("Pickups[10001] = %d, want 1", c.Pickups[10001])
	}
	if len(c.Dropoffs) != 0 {
		t.Errorf("Dropoffs should be empty, got %+v", c.Dropoffs)
	}
}

// neither endpoint locatable: dropped entirely, counted invalid.
func TestMapFieldsNeitherLocatable(t *testing.T) {
	idx := testIndex(t)
	m := New(idx)
	c := stat.NewCounter("yellow", 2016, 1)

	f := record.Fields{
		PickupEpoch: 0, DropoffEpoch: 300,
		PickupLon: 0, PickupLat: 0,
		DropoffLon: 1, DropoffLat: 1,
		TripDistance: 1, FareAmount: 5,
	}
	m.mapFields(f, c)

	if c.Total != 1 || c.Invalid != 1 {
		t.Fatalf("Total/Invalid = %d/%d, want 1/1", c.Total, c.Invalid)
	}
	if len(c.Pickups) != 0 || len(c.Dropoffs) != 0 {
		t.Errorf("both endpoints unlocatable must not touch Pickups/Dropoffs")
	}
}

func TestMapLineMalformedCountsInvalidWithoutTotal(t *testing.T) {
	idx := testIndex(t)
	m := New(idx)
	c := stat.NewCounter("yellow", 2016, 1)

	m.mapLine("not,a,valid,record", c)

	if c.Invalid != 1 {
		t.Errorf("Invalid = %d, want 1", c.Invalid)
	}
	if c.Total != 0 {
		t.Errorf("Total = %d, want 0 (parse failures never reach mapFields' Total++)", c.Total)
	}
}

func TestMapFieldsBucketing(t *testing.T) {
	idx := testIndex(t)
	m := New(idx)
	c := stat.NewCounter("yellow", 2016, 1)

	f := record.Fields{
		PickupEpoch: 3600 * 14, DropoffEpoch: 3600*14 + 1800,
		PickupLon: -73.5, PickupLat: 40.5,
		DropoffLon: -73.6, DropoffLat: 40.6,
		TripDistance: 7, FareAmount: 30,
	}
	m.mapFields(f, c)

	if c.Hour[14] != 1 {
		t.Errorf("Hour[14] = %d, want 1 (pickup at hour 14 UTC)", c.Hour[14])
	}
	if c.TripTime[1800] != 1 {
		t.Errorf("TripTime[1800] = %d, want 1 (1800s trip)", c.TripTime[1800])
	}
	if c.Distance[5] != 1 {
		t.Errorf("Distance[5] = %d, want 1 (7mi falls in >=5 bucket)", c.Distance[5])
	}
	if c.Fare[25] != 1 {
		t.Errorf("Fare[25] = %d, want 1 ($30 falls in >=25 bucket)", c.Fare[25])
	}
}

// Package mapper implements the per-record parse+classify+accumulate step
// described in spec.md §4.3.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package mapper

import (
	"io"
	"time"

	"github.com/NVIDIA/aistore/cmn"
	"github.com/NVIDIA/aistore/geo"
	"github.com/NVIDIA/aistore/record"
	"github.com/NVIDIA/aistore/stat"
)

// Mapper classifies and accumulates every record read from r into c, using
// idx for point-in-polygon classification. It runs to completion (until the
// reader reports io.EOF) or the first non-EOF read error, which is a task-
// fatal IOError per spec.md §7.
type Mapper struct {
	idx *geo.Index
}

func New(idx *geo.Index) *Mapper { return &Mapper{idx: idx} }

// Run drains r into c and returns nil on a clean end-of-range, or the
// underlying IOError if the stream broke mid-range.
func (m *Mapper) Run(r *record.Reader, c *stat.Counter) error {
	for {
		line, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		m.mapLine(line, c)
	}
}

func (m *Mapper) mapLine(line string, c *stat.Counter) {
	fields, ok := record.Parse(line)
	if !ok {
		c.Invalid++
		return
	}
	m.mapFields(fields, c)
}

func (m *Mapper) mapFields(f record.Fields, c *stat.Counter) {
	tripTime := f.DropoffEpoch - f.PickupEpoch
	pickupHour := cmn.Epoch0.Add(time.Duration(f.PickupEpoch) * time.Second).UTC().Hour()

	pd, pdOK := m.idx.Classify(f.PickupLon, f.PickupLat)
	dd, ddOK := m.idx.Classify(f.DropoffLon, f.DropoffLat)

	c.Total++
	if !pdOK && !ddOK {
		// Both endpoints unlocatable: the trip is not assignable to any
		// district, so it is dropped entirely -- a single-endpoint trip is
		// still a valid observation for that endpoint's counters.
		c.Invalid++
		return
	}

	if pdOK {
		c.Pickups[pd]++
	}
	if ddOK {
		c.Dropoffs[dd]++
	}
	c.Hour[pickupHour]++
	c.Distance[stat.Bucket(stat.DistanceBuckets, f.TripDistance)]++
	c.TripTime[stat.Bucket(stat.TripTimeBuckets, float64(tripTime))]++
	c.Fare[stat.Bucket(stat.FareBuckets, f.FareAmount)]++
}

// Package stat implements StatCounter: the in-memory aggregate state
// produced by one Mapper pass and the commutative merge operator used to
// reduce partials and to commit into ResultStore.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package stat

// Distance buckets, in miles: "≥ that many, < next bucket".
var DistanceBuckets = []int{0, 1, 2, 5, 10, 20}

// TripTime buckets, in seconds.
var TripTimeBuckets = []int{0, 300, 600, 900, 1800, 2700, 3600}

// Fare buckets, in dollars.
var FareBuckets = []int{0, 5, 10, 25, 50, 100}

// Bucket returns the largest threshold in bs that is <= v ("first threshold
// >= v" read in descending scan order, i.e. the highest bucket v still
// qualifies for); bs must be ascending and start at 0, so every v >= 0
// matches at least bs[0].
func Bucket(bs []int, v float64) int {
	chosen := bs[0]
	for _, b := range bs {
		if v >= float64(b) {
			chosen = b
		} else {
			break
		}
	}
	return chosen
}

// Counter is the per (color, year, month) aggregate described in spec.md §3.
// All maps are nil-safe to merge but non-nil after NewCounter.
type Counter struct {
	Color string
	Year  int
	Month int

	Total   int64
	Invalid int64

	Pickups  map[int]int64
	Dropoffs map[int]int64

	Hour map[int]int64

	Distance map[int]int64
	TripTime map[int]int64
	Fare     map[int]int64

	BoroughPickups  map[int]int64
	BoroughDropoffs map[int]int64
}

// NewCounter returns a zero-valued Counter tagged with (color, year, month),
// with every map allocated so callers never need a nil check before an
// increment.
func NewCounter(color string, year, month int) *Counter {
	return &Counter{
		Color:           color,
		Year:            year,
		Month:           month,
		Pickups:         make(map[int]int64),
		Dropoffs:        make(map[int]int64),
		Hour:            make(map[int]int64),
		Distance:        make(map[int]int64),
		TripTime:        make(map[int]int64),
		Fare:            make(map[int]int64),
		BoroughPickups:  make(map[int]int64),
		BoroughDropoffs: make(map[int]int64),
	}
}

// Merge is element-wise integer addition on every field: commutative and
// associative, so sub-worker output order is irrelevant. c is mutated in
// place and returned for chaining.
func (c *Counter) Merge(o *Counter) *Counter {
	if o == nil {
		return c
	}
	c.Total += o.Total
	c.Invalid += o.Invalid
	mergeInto(c.Pickups, o.Pickups)
	mergeInto(c.Dropoffs, o.Dropoffs)
	mergeInto(c.Hour, o.Hour)
	mergeInto(c.Distance, o.Distance)
	mergeInto(c.TripTime, o.TripTime)
	mergeInto(c.Fare, o.Fare)
	mergeInto(c.BoroughPickups, o.BoroughPickups)
	mergeInto(c.BoroughDropoffs, o.BoroughDropoffs)
	return c
}

func mergeInto(dst, src map[int]int64) {
	for k, v := range src {
		dst[k] += v
	}
}

// RollupBoroughs recomputes BoroughPickups/BoroughDropoffs from Pickups and
// Dropoffs (index/10000); WorkerPool calls this once after all sub-workers
// have merged, so it is idempotent under repeated application to the same
// Pickups/Dropoffs snapshot.
func (c *Counter) RollupBoroughs() {
	c.BoroughPickups = rollup(c.Pickups)
	c.BoroughDropoffs = rollup(c.Dropoffs)
}

func rollup(districts map[int]int64) map[int]int64 {
	out := make(map[int]int64, 5)
	for idx, n := range districts {
		out[idx/10000] += n
	}
	return out
}

// Clone returns a deep copy, used by tests asserting merge commutativity
// without aliasing the maps of either operand.
func (c *Counter) Clone() *Counter {
	n := NewCounter(c.Color, c.Year, c.Month)
	n.Total, n.Invalid = c.Total, c.Invalid
	mergeInto(n.Pickups, c.Pickups)
	mergeInto(n.Dropoffs, c.Dropoffs)
	mergeInto(n.Hour, c.Hour)
	mergeInto(n.Distance, c.Distance)
	mergeInto(n.TripTime, c.TripTime)
	mergeInto(n.Fare, c.Fare)
	mergeInto(n.BoroughPickups, c.BoroughPickups)
	mergeInto(n.BoroughDropoffs, c.BoroughDropoffs)
	return n
}

// Package queue implements the persistent, leased TaskQueue described in
// spec.md §4.5, and the Cut helper shared with the RecordReader.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package queue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NVIDIA/aistore/cmn"
	"github.com/NVIDIA/aistore/cmn/debug"
)

// Task is a half-open record-index subrange of one shard, plus its
// addressing tuple. LeaseID/LeaseHandle are queue-assigned and meaningful
// only between Pull and Ack/requeue; they are never part of the wire
// encoding.
type Task struct {
	Color string
	Year  int
	Month int

	Start int64
	End   int64

	TimeoutSeconds int

	LeaseID     string
	LeaseHandle string
}

// Encode renders the stable wire body: six comma-separated ASCII fields.
// Implementation-specific fields (LeaseID, LeaseHandle) are never
// serialized, so a task produced by one taxistat version stays consumable
// by another.
func (t *Task) Encode() string {
	return fmt.Sprintf("%s,%d,%d,%d,%d,%d", t.Color, t.Year, t.Month, t.Start, t.End, t.TimeoutSeconds)
}

// Decode parses a wire body produced by Encode. LeaseID/LeaseHandle, if
// provided, come from the queue transport (e.g. a buntdb key), not from
// body.
func Decode(body, leaseID, leaseHandle string) (*Task, error) {
	f := strings.Split(body, ",")
	if len(f) != 6 {
		return nil, cmn.NewErrInvalidArgument("malformed task body %q: expected 6 fields, got %d", body, len(f))
	}
	year, err1 := strconv.Atoi(f[1])
	month, err2 := strconv.Atoi(f[2])
	start, err3 := strconv.ParseInt(f[3], 10, 64)
	end, err4 := strconv.ParseInt(f[4], 10, 64)
	timeout, err5 := strconv.Atoi(f[5])
	for _, err := range []error{err1, err2, err3, err4, err5} {
		if err != nil {
			return nil, cmn.NewErrInvalidArgument("malformed task body %q: %v", body, err)
		}
	}
	if !cmn.IsValidColor(f[0]) {
		return nil, cmn.NewErrInvalidArgument("malformed task body %q: unknown color %q", body, f[0])
	}
	return &Task{
		Color:          f[0],
		Year:           year,
		Month:          month,
		Start:          start,
		End:            end,
		TimeoutSeconds: timeout,
		LeaseID:        leaseID,
		LeaseHandle:    leaseHandle,
	}, nil
}

func (t *Task) String() string {
	return fmt.Sprintf("%s:%d:%d:[%d,%d):%ds", t.Color, t.Year, t.Month, t.Start, t.End, t.TimeoutSeconds)
}

// Range is one half-open [Start, End) subrange produced by Cut.
type Range struct {
	Start, End int64
}

// Cut produces N contiguous half-open subranges whose union is exactly
// [start, end+1). Step = (end-start+1)/N (integer division, i.e. the record
// count divided by N); the last subrange absorbs the remainder by setting
// its upper bound to end+1.
//
// Boundary policy: Cut never errors. The empty range cut(0, -1, N) returns
// N degenerate, coincident [0,0) subranges; cut(0, 0, N) is a one-record
// range and returns N-1 empty [0,0) subranges followed by [0,1). Guarding
// against "more tasks than records" (n_tasks > total_records) is the
// coordinator's responsibility, per spec.md §9's second open question.
func Cut(start, end int64, n int) []Range {
	if n <= 0 {
		return nil
	}
	step := (end - start + 1) / int64(n)
	out := make([]Range, n)
	s := start
	for i := 0; i < n; i++ {
		e := s + step
		if i == n-1 {
			e = end + 1
		}
		out[i] = Range{Start: s, End: e}
		s = e
	}
	debug.Assertf(out[n-1].End == end+1, "cut(%d,%d,%d): last range end %d != %d", start, end, n, out[n-1].End, end+1)
	return out
}

// CutNth is Cut(start, end, n)[nth], computed directly without allocating
// the full slice.
func CutNth(start, end int64, n, nth int) Range {
	step := (end - start + 1) / int64(n)
	s := start + int64(nth)*step
	e := s + step
	if nth == n-1 {
		e = end + 1
	}
	return Range{Start: s, End: e}
}

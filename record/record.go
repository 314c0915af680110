// Package record implements the streaming fixed-width record iterator
// (RecordReader) described in spec.md §4.2: one byte-range of one shard,
// yielded as parsed field values.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package record

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/NVIDIA/aistore/cmn"
	"github.com/NVIDIA/aistore/cmn/cos"
	"github.com/NVIDIA/aistore/cmn/debug"
	"github.com/NVIDIA/aistore/objstore"
	"github.com/NVIDIA/aistore/queue"
)

// Fields holds the 8 parsed data fields of one line, in schema order. The
// trailing padding field is consumed but not retained.
type Fields struct {
	PickupEpoch  int64
	DropoffEpoch int64
	PickupLon    float64
	PickupLat    float64
	DropoffLon   float64
	DropoffLat   float64
	TripDistance float64
	FareAmount   float64
}

// Parse splits line on comma into the 9 fields (8 data + padding) and parses
// the 8 data fields numerically. A malformed line is a per-record
// ParseError condition, never a Go error bubbled to the caller: it is the
// Mapper's job to count it into Invalid, so Parse simply reports ok=false.
func Parse(line string) (f Fields, ok bool) {
	parts := strings.SplitN(line, ",", cmn.NumFields)
	if len(parts) < cmn.NumFields-1 {
		return Fields{}, false
	}
	vals := make([]float64, 8)
	for i := 0; i < 8; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Fields{}, false
		}
		vals[i] = v
	}
	return Fields{
		PickupEpoch:  int64(vals[0]),
		DropoffEpoch: int64(vals[1]),
		PickupLon:    vals[2],
		PickupLat:    vals[3],
		DropoffLon:   vals[4],
		DropoffLat:   vals[5],
		TripDistance: vals[6],
		FareAmount:   vals[7],
	}, true
}

// Reader streams raw record lines from one byte-range of one shard.
type Reader struct {
	body    io.ReadCloser
	buf     []byte
	left    int64 // records remaining to yield
	closed  bool
}

// Open resolves the shard addressed by (color, year, month) under src,
// clamps [start,end) to the shard's actual record count, cuts that range
// into n equal parts via queue.Cut, and opens a byte-range stream over the
// nth part.
func Open(ctx context.Context, src objstore.Source, color string, year, month int, start, end int64, n, nth int) (*Reader, error) {
	size, err := src.Size(ctx, color, year, month)
	if errors.Is(err, os.ErrNotExist) {
		return nil, cmn.NewErrMissingShard(color, year, month)
	}
	if err != nil {
		return nil, cmn.NewErrIO("stat shard", err)
	}

	var total int64 = -1
	if size >= 0 {
		if size%cmn.RecordLength != 0 {
			return nil, cmn.NewErrInvalidArgument(
				"shard %s is malformed: size %d is not a multiple of record length %d",
				objstore.Key(color, year, month), size, cmn.RecordLength)
		}
		total = size / cmn.RecordLength
		if end > total {
			end = total
		}
	}
	if start < 0 || start > end {
		return nil, cmn.NewErrInvalidArgument("invalid range [%d,%d)", start, end)
	}

	s, e := start, end
	if n > 1 {
		if end <= start {
			s, e = start, start
		} else {
			r := queue.CutNth(start, end-1, n, nth)
			s, e = r.Start, r.End
		}
	}

	debug.Assertf(s <= e, "record.Open: sub-range [%d,%d) inverted", s, e)
	body, err := src.RangeReader(ctx, color, year, month, s*cmn.RecordLength, e*cmn.RecordLength)
	if err != nil && cos.IsRetriableConnErr(err) {
		// one immediate retry for a transient connection failure; anything
		// else (or a second failure) is a task-fatal IOError.
		body, err = src.RangeReader(ctx, color, year, month, s*cmn.RecordLength, e*cmn.RecordLength)
	}
	if err != nil {
		return nil, cmn.NewErrIO("open range reader", err)
	}
	return &Reader{body: body, buf: make([]byte, cmn.RecordLength), left: e - s}, nil
}

// Next returns the next raw line (terminator stripped) or io.EOF once `left`
// lines have been yielded or the underlying stream is exhausted, whichever
// comes first.
func (r *Reader) Next() (string, error) {
	if r.left <= 0 {
		return "", io.EOF
	}
	n, err := io.ReadFull(r.body, r.buf)
	if n == 0 {
		return "", io.EOF
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", cmn.NewErrIO("read record", err)
	}
	r.left--
	line := strings.TrimRight(string(r.buf[:n]), "\r\n\x00 ")
	return line, nil
}

func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.body.Close()
}

// Pretty-print helper used by error paths / logging.
func (f Fields) String() string {
	return fmt.Sprintf("pickup=%d dropoff=%d (%.5f,%.5f)->(%.5f,%.5f) dist=%.2f fare=%.2f",
		f.PickupEpoch, f.DropoffEpoch, f.PickupLon, f.PickupLat, f.DropoffLon, f.DropoffLat, f.TripDistance, f.FareAmount)
}

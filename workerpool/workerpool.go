// Package workerpool implements WorkerPool: fan out one Task into N parallel
// sub-workers, each mapping its own sub-range in isolation, then reduce their
// partial StatCounters into one. Grounded on the teacher's own fan-out/join
// shape in dsort/dsort.go's extractLocalShards, which also reaches for
// golang.org/x/sync/errgroup instead of raw sync.WaitGroup.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package workerpool

import (
	"context"
	"runtime"

	"github.com/NVIDIA/aistore/cmn/cos"
	"github.com/NVIDIA/aistore/cmn/nlog"
	"github.com/NVIDIA/aistore/geo"
	"github.com/NVIDIA/aistore/mapper"
	"github.com/NVIDIA/aistore/objstore"
	"github.com/NVIDIA/aistore/queue"
	"github.com/NVIDIA/aistore/record"
	"github.com/NVIDIA/aistore/stat"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Pool runs Task against a fixed source and geo index with a configurable
// degree of intra-worker parallelism.
type Pool struct {
	Src   objstore.Source
	Idx   *geo.Index
	Procs int // 0 => runtime.NumCPU()
}

func New(src objstore.Source, idx *geo.Index, procs int) *Pool {
	if procs <= 0 {
		procs = runtime.NumCPU()
	}
	return &Pool{Src: src, Idx: idx, Procs: procs}
}

// Run spawns Procs parallel sub-workers over task's [Start,End) range, each
// opening its own RecordReader and Mapper, and reduces their partial
// StatCounters. The sub-workers are isolated: each owns its RecordReader and
// its own StatCounter, communicating back only by returning a value -- there
// is no shared mutable state during the map phase (spec.md §5).
//
// If any sub-worker fails fatally, ctx is canceled, the whole task fails,
// and the partial result is discarded -- the caller must not ack.
func (p *Pool) Run(ctx context.Context, task *queue.Task) (*stat.Counter, error) {
	g, gctx := errgroup.WithContext(ctx)
	partials := make([]*stat.Counter, p.Procs)
	var errs cos.Errs

	for i := 0; i < p.Procs; i++ {
		i := i
		g.Go(func() error {
			c := stat.NewCounter(task.Color, task.Year, task.Month)
			partials[i] = c

			r, err := record.Open(gctx, p.Src, task.Color, task.Year, task.Month, task.Start, task.End, p.Procs, i)
			if err != nil {
				err = errors.WithStack(err)
				errs.Add(err)
				return err
			}
			defer r.Close()

			if err := mapper.New(p.Idx).Run(r, c); err != nil {
				err = errors.WithStack(err)
				errs.Add(err)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// errs carries every distinct sub-worker failure (up to its cap),
		// not just the first one errgroup happened to observe.
		if n := errs.Cnt(); n > 1 {
			nlog.Warningf("task %s: %d of %d sub-workers failed", task, n, p.Procs)
		}
		return nil, errs.Err()
	}

	merged := stat.NewCounter(task.Color, task.Year, task.Month)
	for _, c := range partials {
		merged.Merge(c)
	}
	merged.RollupBoroughs()

	nlog.Infof("task %s: mapped %d records (%d invalid) across %d sub-workers",
		task, merged.Total, merged.Invalid, p.Procs)
	return merged, nil
}

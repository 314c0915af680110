// Package coordinator implements Coordinator's two roles from spec.md §4.7:
// one-shot task creation and the long-running worker loop, plus optional
// in-process reporting.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package coordinator

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/NVIDIA/aistore/cmn"
	"github.com/NVIDIA/aistore/cmn/nlog"
	"github.com/NVIDIA/aistore/geo"
	"github.com/NVIDIA/aistore/objstore"
	"github.com/NVIDIA/aistore/queue"
	"github.com/NVIDIA/aistore/stat"
	"github.com/NVIDIA/aistore/store"
	"github.com/NVIDIA/aistore/workerpool"
	"github.com/prometheus/client_golang/prometheus"
)

// Coordinator owns task creation, the worker pull/map/reduce/commit/ack
// loop, and optional reporting.
type Coordinator struct {
	Queue queue.TaskQueue
	Store store.ResultStore
	Src   objstore.Source
	Idx   *geo.Index

	Procs int // intra-worker parallelism; 0 => runtime.NumCPU()

	metrics *metrics
}

func New(q queue.TaskQueue, s store.ResultStore, src objstore.Source, idx *geo.Index, procs int, reg prometheus.Registerer) *Coordinator {
	return &Coordinator{Queue: q, Store: s, Src: src, Idx: idx, Procs: procs, metrics: newMetrics(reg)}
}

// CreateTasks computes total_records from the shard's metadata, cuts
// [0, total_records) into nTasks subranges, resets the target ResultStore
// row to start the batch fresh (spec.md §9's chosen double-commit
// mitigation), and enqueues one task per subrange.
func (c *Coordinator) CreateTasks(ctx context.Context, color string, year, month, nTasks int, timeoutSeconds int) error {
	if !cmn.IsValidColor(color) {
		return cmn.NewErrInvalidArgument("unknown color %q", color)
	}
	win, ok := cmn.DateWindows[color]
	if ok && !win.Contains(year, month) {
		return cmn.NewErrInvalidArgument("%s %d-%02d is outside the published window [%d-%02d, %d-%02d]",
			color, year, month, win.MinYear, win.MinMonth, win.MaxYear, win.MaxMonth)
	}

	size, err := c.Src.Size(ctx, color, year, month)
	if errors.Is(err, os.ErrNotExist) {
		return cmn.NewErrMissingShard(color, year, month)
	}
	if err != nil {
		return cmn.NewErrIO("stat shard for task creation", err)
	}
	if size < 0 {
		return cmn.NewErrInvalidArgument("source does not support task creation (unknown shard size)")
	}
	if size%cmn.RecordLength != 0 {
		return cmn.NewErrInvalidArgument("shard %s is malformed: size %d not a multiple of %d",
			objstore.Key(color, year, month), size, cmn.RecordLength)
	}
	totalRecords := size / cmn.RecordLength
	if nTasks > int(totalRecords) && totalRecords > 0 {
		return cmn.NewErrInvalidArgument("n_tasks (%d) must not exceed total_records (%d)", nTasks, totalRecords)
	}

	if err := c.Store.Reset(color, year, month); err != nil {
		return cmn.NewErrIO("reset result row for new batch", err)
	}

	var ranges []queue.Range
	if totalRecords == 0 {
		ranges = queue.Cut(0, -1, nTasks)
	} else {
		ranges = queue.Cut(0, totalRecords-1, nTasks)
	}

	nlog.Infof("creating %d tasks for %s-%d-%02d (%d records)", nTasks, color, year, month, totalRecords)
	for _, r := range ranges {
		t := &queue.Task{
			Color: color, Year: year, Month: month,
			Start: r.Start, End: r.End,
			TimeoutSeconds: timeoutSeconds,
		}
		if err := c.Queue.Enqueue(t); err != nil {
			return cmn.NewErrIO("enqueue task", err)
		}
		nlog.Infof("%s => create", t)
	}
	return nil
}

// RunOne pulls exactly one task (or returns ErrQueueEmpty), runs the
// WorkerPool, merges the result, and acks. It is the unit the worker loop
// repeats. The command's one-shot mode (no -w/--worker) does not use it: that
// path runs the WorkerPool directly, without the queue.
func (c *Coordinator) RunOne(ctx context.Context, pollWait time.Duration) (*stat.Counter, error) {
	task, err := c.Queue.Pull(true, pollWait)
	if err != nil {
		return nil, err
	}
	c.metrics.tasksPulled.Inc()
	nlog.Infof("%s => pull", task)

	pool := workerpool.New(c.Src, c.Idx, c.Procs)
	result, err := pool.Run(ctx, task)
	if err != nil {
		c.metrics.tasksFailed.Inc()
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return nil, &cmn.ErrInterrupted{}
		}
		// The task is intentionally left un-acked: TaskQueue redelivers it
		// once the lease expires. Do not retry in-process.
		return nil, err
	}

	if err := c.Store.Merge(result); err != nil {
		c.metrics.tasksFailed.Inc()
		return nil, cmn.NewErrIO("commit result", err)
	}
	if err := c.Queue.Ack(task); err != nil {
		return nil, cmn.NewErrIO("ack task", err)
	}
	c.metrics.tasksAcked.Inc()
	c.metrics.recordsMapped.Add(float64(result.Total - result.Invalid))
	c.metrics.recordsInvalid.Add(float64(result.Invalid))
	return result, nil
}

// WorkerLoop repeatedly pulls and processes tasks until ctx is canceled.
// On ErrQueueEmpty it sleeps sleepInterval and retries; any other pull/run
// error is logged and the loop continues (a single task's fatal failure is
// not fatal to the worker process).
func (c *Coordinator) WorkerLoop(ctx context.Context, pollWait, sleepInterval time.Duration, onResult func(*stat.Counter)) error {
	for {
		select {
		case <-ctx.Done():
			nlog.Infof("worker loop: shutting down")
			return nil
		default:
		}

		result, err := c.RunOne(ctx, pollWait)
		switch {
		case cmn.IsErrQueueEmpty(err):
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(sleepInterval):
			}
		case cmn.IsErrInterrupted(err):
			// Partial work was already discarded by WorkerPool/RunOne; do
			// not ack, let the lease expire and the task be redelivered.
			return nil
		case err != nil:
			nlog.Errorf("task failed, will be redelivered: %v", err)
		default:
			if onResult != nil {
				onResult(result)
			}
		}
	}
}

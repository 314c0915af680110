// Command taxistat creates map-reduce tasks over NYC taxi trip shards and/or
// runs a worker loop processing them, per spec.md §6.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NVIDIA/aistore/cmn"
	"github.com/NVIDIA/aistore/cmn/nlog"
	"github.com/NVIDIA/aistore/coordinator"
	"github.com/NVIDIA/aistore/geo"
	"github.com/NVIDIA/aistore/objstore"
	"github.com/NVIDIA/aistore/queue"
	"github.com/NVIDIA/aistore/store"
	"github.com/NVIDIA/aistore/workerpool"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		src    = flag.String("src", "-", "shard source URI: '-' (stdin), file://<dir>, s3://<bucket>, az://<container>, gs://<bucket>")
		color  = flag.String("color", "", "shard color: yellow or green")
		year   = flag.Int("year", 0, "shard year")
		month  = flag.Int("month", 0, "shard month (1-12)")
		start  = flag.Int64("start", 0, "first record index, inclusive")
		end    = flag.Int64("end", -1, "last record index, exclusive (-1 => entire shard)")
		procs  = flag.Int("procs", 0, "intra-task parallelism (0 => runtime.NumCPU())")
		worker = flag.Bool("worker", false, "run as a persistent worker instead of a one-shot task")
		nTasks = flag.Int("tasks", 0, "create this many tasks for (color, year, month) before running")
		report = flag.Bool("report", false, "print the current aggregate for (color, year, month) and exit")
		geoPath = flag.String("geo", "", "path to the borough/district GeoJSON file")
		queuePath = flag.String("queue-db", "taxistat-queue.db", "path to the task queue's buntdb file")
		storePath = flag.String("store-db", "taxistat-store.db", "path to the result store's buntdb file")
		pollWait  = flag.Duration("poll-wait", 5*time.Second, "Pull long-poll budget")
		sleepWait = flag.Duration("sleep", 2*time.Second, "idle sleep between empty polls in worker mode")
		timeout   = flag.Int("task-timeout", 300, "visibility-lease timeout, in seconds, for created tasks")
	)
	flag.StringVar(color, "c", "", "shorthand for -color")
	flag.IntVar(year, "y", 0, "shorthand for -year")
	flag.IntVar(month, "m", 0, "shorthand for -month")
	flag.Int64Var(start, "s", 0, "shorthand for -start")
	flag.Int64Var(end, "e", -1, "shorthand for -end")
	flag.IntVar(procs, "p", 0, "shorthand for -procs")
	flag.BoolVar(worker, "w", false, "shorthand for -worker")
	flag.BoolVar(report, "r", false, "shorthand for -report")
	nlog.InitFlags(flag.CommandLine)
	flag.Parse()
	defer nlog.Flush(true)

	idx, err := geo.LoadFile(*geoPath)
	if err != nil {
		nlog.Errorf("load geo index: %v", err)
		return 1
	}

	source, err := objstore.Resolve(*src)
	if err != nil {
		nlog.Errorf("resolve source: %v", err)
		return 1
	}

	q, err := queue.Open(*queuePath)
	if err != nil {
		nlog.Errorf("open task queue: %v", err)
		return 1
	}
	defer q.Close()

	rs, err := store.Open(*storePath)
	if err != nil {
		nlog.Errorf("open result store: %v", err)
		return 1
	}
	defer rs.Close()

	c := coordinator.New(q, rs, source, idx, *procs, prometheus.DefaultRegisterer)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *nTasks > 0 {
		if err := c.CreateTasks(ctx, *color, *year, *month, *nTasks, *timeout); err != nil {
			nlog.Errorf("create tasks: %v", err)
			return 1
		}
	}

	if *report {
		if err := c.Report(os.Stdout, *color, *year, *month); err != nil {
			nlog.Errorf("report: %v", err)
			return 1
		}
		return 0
	}

	if *worker {
		if err := c.WorkerLoop(ctx, *pollWait, *sleepWait, nil); err != nil {
			nlog.Errorf("worker loop: %v", err)
			return 1
		}
		return 0
	}

	if *nTasks > 0 {
		return 0 // task creation was the whole ask
	}

	// No -worker, -report, or -tasks: run exactly one task directly against
	// [-start, -end), bypassing the queue entirely. Useful for ad hoc runs
	// and for the scenarios in spec.md §8 that exercise Mapper/WorkerPool in
	// isolation from TaskQueue. end=-1 (the default) means "through the end
	// of the shard".
	endRec := *end
	if endRec < 0 {
		size, serr := source.Size(ctx, *color, *year, *month)
		if serr != nil {
			nlog.Errorf("stat shard: %v", serr)
			return 1
		}
		if size < 0 {
			// stdin: size unknown, read until the stream ends
			endRec = math.MaxInt64 / cmn.RecordLength
		} else {
			endRec = size / cmn.RecordLength
		}
	}
	t := &queue.Task{Color: *color, Year: *year, Month: *month, Start: *start, End: endRec, TimeoutSeconds: *timeout}
	pool := workerpool.New(source, idx, *procs)
	result, err := pool.Run(ctx, t)
	if err != nil {
		nlog.Errorf("run task: %v", err)
		return 1
	}
	if err := rs.Merge(result); err != nil {
		nlog.Errorf("commit result: %v", err)
		return 1
	}
	fmt.Printf("mapped %d records (%d invalid)\n", result.Total-result.Invalid, result.Invalid)
	return 0
}

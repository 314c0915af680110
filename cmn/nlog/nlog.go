// Package nlog is taxistat's process logger: leveled, timestamped, and safe for
// concurrent use across worker goroutines.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

var (
	toStderr     bool
	alsoToStderr bool

	mu  sync.Mutex
	out = os.Stderr
)

// InitFlags registers the same two logging flags the teacher's daemons expose;
// callers still own flag.Parse().
func InitFlags(flset *flag.FlagSet) {
	flset.BoolVar(&toStderr, "logtostderr", true, "accepted for compatibility; all output goes to standard error")
	flset.BoolVar(&alsoToStderr, "alsologtostderr", false, "accepted for compatibility; all output goes to standard error")
}

func sevChar(s severity) byte {
	switch s {
	case sevWarn:
		return 'W'
	case sevErr:
		return 'E'
	default:
		return 'I'
	}
}

func log(sev severity, format string, args ...any) {
	msg := format
	if len(args) > 0 || format == "" {
		msg = fmt.Sprint(args...)
		if format != "" {
			msg = fmt.Sprintf(format, args...)
		}
	}
	line := fmt.Sprintf("%c%s %s\n", sevChar(sev), time.Now().Format("0102 15:04:05.000"), msg)

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprint(out, line)
}

func Infof(format string, args ...any)    { log(sevInfo, format, args...) }
func Infoln(args ...any)                  { log(sevInfo, "", args...) }
func Warningf(format string, args ...any) { log(sevWarn, format, args...) }
func Warningln(args ...any)               { log(sevWarn, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, format, args...) }
func Errorln(args ...any)                 { log(sevErr, "", args...) }

// Flush is a no-op placeholder preserving the teacher's shutdown sequence
// (`nlog.Flush` before process exit); there is no in-memory buffer to drain
// since every write above goes straight to os.Stderr.
func Flush(...bool) {}

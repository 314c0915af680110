//go:build debug

// Package debug provides invariant checks that compile away in production
// builds (build taxistat with -tags debug to enable them).
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package debug

import "fmt"

func ON() bool { return true }

func Assert(cond bool, args ...any) {
	if !cond {
		panic(fmt.Sprintln(append([]any{"assertion failed:"}, args...)...))
	}
}

func Assertf(cond bool, f string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+f, args...))
	}
}

func AssertNoErr(err error) {
	if err != nil {
		panic(err)
	}
}

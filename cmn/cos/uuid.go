// Package cos provides common low-level types and utilities shared by the
// taxistat packages.
/*
 * Copyright (c) 2018-2024, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"sync"

	"github.com/OneOfOne/xxhash"
	"github.com/teris-io/shortid"
)

// Alphabet for generating ids, same shape as aistore's uuid alphabet.
const idABC = "-5nZJDft6LuzsjGNpPwY7rQa39vehq4i1cV2FROo8yHSlC0BUEdWbIxMmTgKXAk_"

var (
	sidOnce sync.Once
	sid     *shortid.Shortid
)

func initShortID() {
	seed := xxhash.Checksum64([]byte(idABC))
	sid, _ = shortid.New(4, idABC, seed)
}

// GenLeaseID returns a short opaque token used as TaskQueue's lease id: it is
// meaningful only between a pull() and the matching ack()/requeue, never part
// of the task's wire encoding.
func GenLeaseID() string {
	sidOnce.Do(initShortID)
	id, err := sid.Generate()
	if err != nil {
		// shortid only fails on a misconfigured alphabet; this keeps
		// GenLeaseID total instead of propagating a config bug to callers.
		return xxhashHex([]byte(id))
	}
	return id
}

func xxhashHex(b []byte) string {
	h := xxhash.Checksum64(b)
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[h&0xf]
		h >>= 4
	}
	return string(buf)
}

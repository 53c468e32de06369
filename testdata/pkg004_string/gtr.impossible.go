package main

import (
	"github.com/lodesym/lode"
)

func gtrImpossible() {
	a := lode.String(3)
	b := lode.String(3)
	lode.Assert(a[0] == b[0])
	lode.Assert(a[1] < b[1]) // invalidate lss
	lode.Assert(a[2] > b[2])

	if a > b {
		return
	}
	return
}

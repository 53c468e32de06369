package main

import (
	"github.com/lodesym/lode"
)

func geqShortRHS() {
	a := lode.String(3)
	b := lode.String(2)
	lode.Assert(a[0] == b[0])
	lode.Assert(a[1] == b[1])

	if a >= b {
		return
	}
	return
}

package main

import (
	"github.com/lodesym/lode"
)

func gtrShortLHS() {
	a := lode.String(2)
	b := lode.String(3)
	lode.Assert(a[0] == b[0])
	lode.Assert(a[1] == b[1])

	if a > b {
		return
	}
	return
}

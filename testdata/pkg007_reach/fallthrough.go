package main

import (
	"github.com/lodesym/lode"
)

func fallthru() {
	x := lode.Int()
	if x > 10 {
		lode.Assert(x > 10)
	}
	_ = x
}

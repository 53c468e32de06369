package main

import (
	"github.com/lodesym/lode"
)

func sliceByteSlice() {
	a := lode.ByteSlice(4)
	b := a[1:3]
	s := string(b)

	if s == "XY" {
		return
	}
	return
}

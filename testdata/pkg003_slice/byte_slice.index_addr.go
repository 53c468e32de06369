package main

import (
	"github.com/lodesym/lode"
)

func byteSliceIndexAddr() {
	a := lode.ByteSlice(4)
	b := make([]byte, 2, 3)
	b[0] = a[2]
	b[1] = a[1]

	if string(b) == "XY" {
		return
	}
	return
}

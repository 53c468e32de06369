package main

import (
	"github.com/lodesym/lode"
)

func byteSliceMake() {
	i, j := 2, 3
	b := make([]byte, i, j)
	b[0] = lode.Byte()
	b[1] = lode.Byte()

	if string(b) == "XY" {
		return
	}
	return
}

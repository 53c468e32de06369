package main

import (
	"github.com/lodesym/lode"
)

func convertByteSlice() {
	a := lode.String(2)
	b := []byte(a)

	if string(b) == "XY" {
		return
	}
	return
}

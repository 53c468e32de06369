package main

import (
	"github.com/lodesym/lode"
)

func stringSlice() {
	a := lode.String(4)

	if a[1:3] == "XY" {
		return
	}
	return
}

package main

import (
	"github.com/lodesym/lode"
)

func stringSliceOOB() {
	a := lode.String(2)

	_ = a[1:3]
}

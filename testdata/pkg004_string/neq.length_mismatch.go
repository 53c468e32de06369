package main

import (
	"github.com/lodesym/lode"
)

func neqLengthMismatch() {
	a := lode.String(2)
	b := lode.String(3)

	if a != b {
		return
	}
	return
}

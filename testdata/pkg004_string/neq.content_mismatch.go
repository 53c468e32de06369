package main

import (
	"github.com/lodesym/lode"
)

func neqContentMismatch() {
	a := lode.String(3)
	b := lode.String(3)

	if a != b {
		return
	}
	return
}

package main

import (
	"github.com/lodesym/lode"
)

func stringConcat() {
	a := lode.String(2)
	b := lode.String(3)

	if a+b == "fobaz" {
		return
	}
	return
}

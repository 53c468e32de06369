package main

import (
	"github.com/lodesym/lode"
)

func reach() {
	x := lode.Int()
	if x > 10 {
		deep(x)
		return
	}
	return
}

func deep(x int) {
	if x > 100 {
		return
	}
	return
}

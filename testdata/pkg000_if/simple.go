package main

import (
	"github.com/lodesym/lode"
)

func simple() {
	x := lode.Int()
	if x == 0xAABB {
		return
	}
}

package lode_test

import (
	"testing"

	"github.com/lodesym/lode"
)

// buildDiamondModule returns a synthetic module:
//
//	entry: b0 -> {b1, b2}; b1 -> b3; b2 -> b3; b1 calls helper
//	helper: h0 -> h1
//	orphan: o0
func buildDiamondModule() *lode.Module {
	m := lode.NewModule()

	entry := m.AddFunction("entry")
	b0, b1, b2, b3 := entry.AddBlock(), entry.AddBlock(), entry.AddBlock(), entry.AddBlock()
	lode.AddEdge(b0, b1)
	lode.AddEdge(b0, b2)
	lode.AddEdge(b1, b3)
	lode.AddEdge(b2, b3)

	helper := m.AddFunction("helper")
	h0, h1 := helper.AddBlock(), helper.AddBlock()
	lode.AddEdge(h0, h1)
	lode.AddCall(b1, helper)

	orphan := m.AddFunction("orphan")
	orphan.AddBlock()

	return m
}

func TestCodeGraphDistance_Distance(t *testing.T) {
	m := buildDiamondModule()
	cgd := lode.NewCodeGraphDistance(m)
	entry := m.FunctionByName("entry")
	b0, b3 := entry.Blocks[0], entry.Blocks[3]

	t.Run("Forward", func(t *testing.T) {
		dist := cgd.Distance(b0)
		if got, exp := len(dist), 4; got != exp {
			t.Fatalf("len(dist)=%d, expected %d", got, exp)
		} else if dist[b0] != 0 || dist[entry.Blocks[1]] != 1 || dist[entry.Blocks[2]] != 1 || dist[b3] != 2 {
			t.Fatalf("unexpected distances: %v", dist)
		}
	})

	t.Run("ForwardFromExit", func(t *testing.T) {
		dist := cgd.Distance(b3)
		if got, exp := len(dist), 1; got != exp {
			t.Fatalf("len(dist)=%d, expected %d", got, exp)
		} else if dist[b3] != 0 {
			t.Fatalf("unexpected distances: %v", dist)
		}
	})

	t.Run("Backward", func(t *testing.T) {
		dist := cgd.BackwardDistance(b3)
		if got, exp := len(dist), 4; got != exp {
			t.Fatalf("len(dist)=%d, expected %d", got, exp)
		} else if dist[b3] != 0 || dist[entry.Blocks[1]] != 1 || dist[entry.Blocks[2]] != 1 || dist[b0] != 2 {
			t.Fatalf("unexpected distances: %v", dist)
		}
	})
}

func TestCodeGraphDistance_FunctionDistance(t *testing.T) {
	m := buildDiamondModule()
	cgd := lode.NewCodeGraphDistance(m)
	entry, helper, orphan := m.FunctionByName("entry"), m.FunctionByName("helper"), m.FunctionByName("orphan")

	t.Run("Forward", func(t *testing.T) {
		dist := cgd.FunctionDistance(entry)
		if got, exp := len(dist), 2; got != exp {
			t.Fatalf("len(dist)=%d, expected %d", got, exp)
		} else if dist[entry] != 0 || dist[helper] != 1 {
			t.Fatalf("unexpected distances: %v", dist)
		}
	})

	t.Run("Backward", func(t *testing.T) {
		dist := cgd.DistanceToFunction(helper)
		if got, exp := len(dist), 2; got != exp {
			t.Fatalf("len(dist)=%d, expected %d", got, exp)
		} else if dist[helper] != 0 || dist[entry] != 1 {
			t.Fatalf("unexpected distances: %v", dist)
		}
	})

	t.Run("Orphan", func(t *testing.T) {
		dist := cgd.DistanceToFunction(orphan)
		if got, exp := len(dist), 1; got != exp {
			t.Fatalf("len(dist)=%d, expected %d", got, exp)
		}
	})
}

func TestCodeGraphDistance_CallerBlocks(t *testing.T) {
	m := buildDiamondModule()
	cgd := lode.NewCodeGraphDistance(m)
	entry, helper := m.FunctionByName("entry"), m.FunctionByName("helper")

	if blocks := cgd.CallerBlocks(helper); len(blocks) != 1 {
		t.Fatalf("len(blocks)=%d, expected 1", len(blocks))
	} else if blocks[0] != entry.Blocks[1] {
		t.Fatalf("unexpected caller block: %s", blocks[0])
	}

	if blocks := cgd.CallerBlocks(entry); len(blocks) != 0 {
		t.Fatalf("len(blocks)=%d, expected 0", len(blocks))
	}
}

func TestModule_BuildModule(t *testing.T) {
	prog := MustBuildProgram(t, "./testdata/pkg001_call")
	caller := MustFindFunction(t, prog, "caller")
	callee := MustFindFunction(t, prog, "callee")

	m := lode.BuildModule(caller)

	// The call closure pulls in callee.
	fn := m.FunctionOf(callee)
	if fn == nil {
		t.Fatal("expected callee in module")
	} else if got, exp := len(fn.Blocks), len(callee.Blocks); got != exp {
		t.Fatalf("len(Blocks)=%d, expected %d", got, exp)
	}

	// Wrapper blocks mirror the SSA control flow graph.
	entry := m.BlockOf(caller.Blocks[0])
	if entry == nil {
		t.Fatal("expected block wrapper")
	} else if got, exp := len(entry.Succs), len(caller.Blocks[0].Succs); got != exp {
		t.Fatalf("len(Succs)=%d, expected %d", got, exp)
	}

	// The entry block statically calls callee.
	var found bool
	for _, target := range entry.Calls {
		if target == fn {
			found = true
		}
	}
	if !found {
		t.Fatal("expected call edge to callee")
	}
}

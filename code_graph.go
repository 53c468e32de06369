package lode

// CodeGraphDistance computes shortest-path distances over a module's control
// flow and call graphs. Every map is computed on first request with a
// breadth-first search and cached for the lifetime of the calculator; the
// underlying module must not change once distances are handed out.
type CodeGraphDistance struct {
	module *Module

	blockDist     map[*Block]map[*Block]uint
	blockBackDist map[*Block]map[*Block]uint
	fnDist        map[*Function]map[*Function]uint
	fnBackDist    map[*Function]map[*Function]uint

	callerBlocks map[*Function][]*Block
}

// NewCodeGraphDistance returns a new calculator over the given module.
func NewCodeGraphDistance(m *Module) *CodeGraphDistance {
	return &CodeGraphDistance{
		module:        m,
		blockDist:     make(map[*Block]map[*Block]uint),
		blockBackDist: make(map[*Block]map[*Block]uint),
		fnDist:        make(map[*Function]map[*Function]uint),
		fnBackDist:    make(map[*Function]map[*Function]uint),
	}
}

// Distance returns distances from b to every block reachable from it,
// following control flow edges forward. b itself maps to zero.
func (cgd *CodeGraphDistance) Distance(b *Block) map[*Block]uint {
	if dist, ok := cgd.blockDist[b]; ok {
		return dist
	}
	dist := bfsBlocks(b, func(b *Block) []*Block { return b.Succs })
	cgd.blockDist[b] = dist
	return dist
}

// BackwardDistance returns distances from every block that can reach b,
// following control flow edges backward. b itself maps to zero.
func (cgd *CodeGraphDistance) BackwardDistance(b *Block) map[*Block]uint {
	if dist, ok := cgd.blockBackDist[b]; ok {
		return dist
	}
	dist := bfsBlocks(b, func(b *Block) []*Block { return b.Preds })
	cgd.blockBackDist[b] = dist
	return dist
}

// FunctionDistance returns call graph distances from fn to every function
// reachable from it.
func (cgd *CodeGraphDistance) FunctionDistance(fn *Function) map[*Function]uint {
	if dist, ok := cgd.fnDist[fn]; ok {
		return dist
	}
	dist := bfsFunctions(fn, callees)
	cgd.fnDist[fn] = dist
	return dist
}

// BackwardFunctionDistance returns call graph distances from every function
// that can reach fn.
func (cgd *CodeGraphDistance) BackwardFunctionDistance(fn *Function) map[*Function]uint {
	if dist, ok := cgd.fnBackDist[fn]; ok {
		return dist
	}
	dist := bfsFunctions(fn, cgd.callers)
	cgd.fnBackDist[fn] = dist
	return dist
}

// DistanceToFunction returns, for every function that can reach target
// through calls, its call graph distance to target.
func (cgd *CodeGraphDistance) DistanceToFunction(target *Function) map[*Function]uint {
	return cgd.BackwardFunctionDistance(target)
}

// CallerBlocks returns the blocks that statically call fn.
func (cgd *CodeGraphDistance) CallerBlocks(fn *Function) []*Block {
	if cgd.callerBlocks == nil {
		cgd.callerBlocks = make(map[*Function][]*Block)
		for _, f := range cgd.module.Functions {
			for _, b := range f.Blocks {
				for _, callee := range b.Calls {
					cgd.callerBlocks[callee] = append(cgd.callerBlocks[callee], b)
				}
			}
		}
	}
	return cgd.callerBlocks[fn]
}

func bfsBlocks(src *Block, next func(*Block) []*Block) map[*Block]uint {
	dist := map[*Block]uint{src: 0}
	queue := []*Block{src}
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		for _, other := range next(b) {
			if _, ok := dist[other]; ok {
				continue
			}
			dist[other] = dist[b] + 1
			queue = append(queue, other)
		}
	}
	return dist
}

func callees(fn *Function) []*Function {
	var a []*Function
	for _, b := range fn.Blocks {
		a = append(a, b.Calls...)
	}
	return a
}

func (cgd *CodeGraphDistance) callers(fn *Function) []*Function {
	var a []*Function
	for _, b := range cgd.CallerBlocks(fn) {
		a = append(a, b.Parent)
	}
	return a
}

func bfsFunctions(src *Function, next func(*Function) []*Function) map[*Function]uint {
	dist := map[*Function]uint{src: 0}
	queue := []*Function{src}
	for len(queue) > 0 {
		fn := queue[0]
		queue = queue[1:]
		for _, other := range next(fn) {
			if _, ok := dist[other]; ok {
				continue
			}
			dist[other] = dist[fn] + 1
			queue = append(queue, other)
		}
	}
	return dist
}

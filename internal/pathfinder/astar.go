package pathfinder

import (
	"container/heap"

	"github.com/Faultbox/fieldboard/pkg/grid"
)

// searchNode is the A* bookkeeping for one graph node.
type searchNode struct {
	node   *node
	G      float32 // Cost from start
	H      float32 // Straight-line estimate to goal
	F      float32 // G + H
	Parent *searchNode
	Index  int // Index in heap
}

// searchHeap implements a priority queue ordered by F.
type searchHeap []*searchNode

func (h searchHeap) Len() int           { return len(h) }
func (h searchHeap) Less(i, j int) bool { return h[i].F < h[j].F }
func (h searchHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].Index = i
	h[j].Index = j
}

func (h *searchHeap) Push(x any) {
	n := len(*h)
	sn := x.(*searchNode)
	sn.Index = n
	*h = append(*h, sn)
}

func (h *searchHeap) Pop() any {
	old := *h
	n := len(old)
	sn := old[n-1]
	old[n-1] = nil
	sn.Index = -1
	*h = old[0 : n-1]
	return sn
}

// search runs A* from start to goal over enabled nodes. The returned path
// excludes start; nil means goal is unreachable.
func (pf *Pathfinder) search(start, goal *node) []grid.Cell {
	openSet := &searchHeap{}
	heap.Init(openSet)

	closedSet := make(map[int]bool)
	visited := make(map[int]*searchNode)

	first := &searchNode{
		node: start,
		H:    start.pos.Distance(goal.pos),
	}
	first.F = first.H
	heap.Push(openSet, first)
	visited[start.id] = first

	// Every node enters the open set at most once.
	maxIterations := len(pf.nodes)
	iterations := 0

	for openSet.Len() > 0 && iterations < maxIterations {
		iterations++

		current := heap.Pop(openSet).(*searchNode)
		if current.node == goal {
			return reconstructPath(current)
		}
		closedSet[current.node.id] = true

		for _, id := range current.node.neighbors {
			if closedSet[id] || pf.disabled.Has(id) {
				continue
			}
			next, ok := pf.nodes[id]
			if !ok {
				continue
			}

			g := current.G + current.node.pos.Distance(next.pos)

			neighbor, seen := visited[id]
			if !seen {
				neighbor = &searchNode{
					node:   next,
					G:      g,
					H:      next.pos.Distance(goal.pos),
					Parent: current,
				}
				neighbor.F = neighbor.G + neighbor.H
				visited[id] = neighbor
				heap.Push(openSet, neighbor)
			} else if g < neighbor.G {
				neighbor.G = g
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	return nil
}

// reconstructPath walks parents back to the start, dropping the start cell.
func reconstructPath(sn *searchNode) []grid.Cell {
	var path []grid.Cell
	for ; sn != nil && sn.Parent != nil; sn = sn.Parent {
		path = append(path, sn.node.cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

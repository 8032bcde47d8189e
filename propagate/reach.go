// Package propagate implements the derivation engine: transitive-closure
// reachability over the relation graph, succinctness edge propagation,
// operation-support propagation via edges and lemmas, and the fixed-point
// loop that drives them to closure.
package propagate

import (
	"github.com/dkahdian/kcmap/catalog"
	"github.com/dkahdian/kcmap/dataset"
)

// Reachability is the transitive closure of the relation graph restricted
// to edges whose status passes the allowed predicate, with parent pointers
// for witness-path reconstruction.
type Reachability struct {
	n      int
	reach  [][]bool
	parent [][]int
}

// ComputeReachability runs one BFS per source over edges whose status is
// in the allowed set. Neighbors are visited in index order, so the
// recorded witness is the shortest path with the lowest-index tie-break,
// keeping generated descriptions reproducible. Safe to call repeatedly as
// the matrix mutates between passes.
func ComputeReachability(m *dataset.AdjacencyMatrix, allowed func(catalog.Complexity) bool) *Reachability {
	n := m.Size()
	r := &Reachability{
		n:      n,
		reach:  make([][]bool, n),
		parent: make([][]int, n),
	}
	for i := range r.reach {
		r.reach[i] = make([]bool, n)
		r.parent[i] = make([]int, n)
		for j := range r.parent[i] {
			r.parent[i][j] = -1
		}
	}

	queue := make([]int, 0, n)
	visited := make([]bool, n)
	for src := 0; src < n; src++ {
		for i := range visited {
			visited[i] = false
		}
		visited[src] = true
		queue = append(queue[:0], src)

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for next := 0; next < n; next++ {
				if visited[next] {
					continue
				}
				cell := m.At(cur, next)
				if cell == nil || !allowed(cell.Status) {
					continue
				}
				visited[next] = true
				r.reach[src][next] = true
				r.parent[src][next] = cur
				queue = append(queue, next)
			}
		}
	}
	return r
}

// Reachable reports whether j is reachable from i (i != j) over allowed
// edges. Out-of-range indices read as unreachable.
func (r *Reachability) Reachable(i, j int) bool {
	if i < 0 || j < 0 || i >= r.n || j >= r.n || i == j {
		return false
	}
	return r.reach[i][j]
}

// Path reconstructs the witness path from src to dst inclusive, walking
// the parent pointers. Returns nil when dst is not reachable; callers must
// treat Reachable as authoritative and only narrate real paths.
func (r *Reachability) Path(src, dst int) []int {
	if !r.Reachable(src, dst) {
		return nil
	}
	rev := []int{dst}
	for cur := dst; cur != src; {
		cur = r.parent[src][cur]
		if cur < 0 {
			return nil
		}
		rev = append(rev, cur)
	}
	path := make([]int, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

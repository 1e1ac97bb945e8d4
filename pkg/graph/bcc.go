package graph

// biconnectedComponents splits g's edges into maximal biconnected
// components using the classic low-link/edge-stack DFS. Each returned
// slice holds indices into g.Edges.
func (g *Multigraph) biconnectedComponents() [][]int {
	adj := g.adjacency()

	disc := make(map[int]int)
	low := make(map[int]int)
	visited := make(map[int]bool)
	parentEdge := make(map[int]int) // edge index is never negative; -1 means "no parent edge"
	var edgeStack []int
	var comps [][]int
	timer := 0

	var dfs func(u int)
	dfs = func(u int) {
		visited[u] = true
		timer++
		disc[u] = timer
		low[u] = timer
		if _, ok := parentEdge[u]; !ok {
			parentEdge[u] = -1
		}

		for _, nb := range adj[u] {
			if nb.EdgeIdx == parentEdge[u] {
				continue
			}
			if !visited[nb.Neighbor] {
				parentEdge[nb.Neighbor] = nb.EdgeIdx
				edgeStack = append(edgeStack, nb.EdgeIdx)
				dfs(nb.Neighbor)

				if low[nb.Neighbor] < low[u] {
					low[u] = low[nb.Neighbor]
				}
				if low[nb.Neighbor] >= disc[u] {
					comp := popUntil(&edgeStack, nb.EdgeIdx)
					comps = append(comps, comp)
				}
			} else if disc[nb.Neighbor] < disc[u] {
				edgeStack = append(edgeStack, nb.EdgeIdx)
				if disc[nb.Neighbor] < low[u] {
					low[u] = disc[nb.Neighbor]
				}
			}
		}
	}

	for v := range g.Vertices {
		if !visited[v] {
			dfs(v)
			if len(edgeStack) > 0 {
				comps = append(comps, popUntil(&edgeStack, edgeStack[len(edgeStack)-1]))
			}
		}
	}
	return comps
}

// popUntil pops edgeStack down to and including target, returning the
// popped indices as a new biconnected component.
func popUntil(edgeStack *[]int, target int) []int {
	s := *edgeStack
	var comp []int
	for {
		n := len(s) - 1
		e := s[n]
		s = s[:n]
		comp = append(comp, e)
		if e == target {
			break
		}
	}
	*edgeStack = s
	return comp
}

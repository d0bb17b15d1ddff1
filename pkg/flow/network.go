package flow

const flowEps = 1e-9

// arc is one directed arc in the residual network.
type arc struct {
	to  int
	cap float64
	rev int // index of the reverse arc in adj[to]
}

// network is a capacitated directed graph in adjacency-list arena form.
// Arcs always come in forward/reverse pairs so the residual graph is the
// arc list itself.
type network struct {
	adj [][]arc
}

func newNetwork(n int) *network {
	return &network{adj: make([][]arc, n)}
}

func (nw *network) addArc(u, v int, capacity float64) {
	nw.adj[u] = append(nw.adj[u], arc{to: v, cap: capacity, rev: len(nw.adj[v])})
	nw.adj[v] = append(nw.adj[v], arc{to: u, cap: 0, rev: len(nw.adj[u]) - 1})
}

// maxFlow runs Edmonds-Karp from s to t. The network is consumed: arc
// capacities hold residuals afterwards.
func (nw *network) maxFlow(s, t int) float64 {
	var total float64
	n := len(nw.adj)
	parent := make([]int, n)    // node index of predecessor
	parentArc := make([]int, n) // arc index within adj[parent]

	for {
		for i := range parent {
			parent[i] = -1
		}
		parent[s] = s

		queue := []int{s}
		for len(queue) > 0 && parent[t] == -1 {
			u := queue[0]
			queue = queue[1:]
			for ai, a := range nw.adj[u] {
				if a.cap > flowEps && parent[a.to] == -1 {
					parent[a.to] = u
					parentArc[a.to] = ai
					queue = append(queue, a.to)
				}
			}
		}
		if parent[t] == -1 {
			return total
		}

		// Bottleneck along the augmenting path.
		bottleneck := -1.0
		for v := t; v != s; v = parent[v] {
			a := nw.adj[parent[v]][parentArc[v]]
			if bottleneck < 0 || a.cap < bottleneck {
				bottleneck = a.cap
			}
		}
		for v := t; v != s; v = parent[v] {
			a := &nw.adj[parent[v]][parentArc[v]]
			a.cap -= bottleneck
			nw.adj[v][a.rev].cap += bottleneck
		}
		total += bottleneck
	}
}

// Package analyze provides read-only structural analyses over an
// already-compiled, immutable dgraph.DecisionGraph — lints and
// path queries an author runs over a questionnaire, never anything
// that touches a live interpreter run. It adapts the Dijkstra/Yen's
// shapes of ritamzico-pgraph's internal/inference package from
// Bernoulli edge probabilities to this domain's "every edge is always
// active" control-flow edges, where the natural cost is hop count
// rather than a probability to maximize.
package analyze

import (
	"container/heap"
	"sort"
	"sync"

	"github.com/ritamzico/decisiongraph/internal/dgraph"
)

// adjacency builds the successor map for every node in g once, so the
// analyses below don't re-derive it per call.
func adjacency(g *dgraph.DecisionGraph) map[dgraph.NodeID][]dgraph.NodeID {
	adj := make(map[dgraph.NodeID][]dgraph.NodeID, g.Len())
	for _, n := range g.Nodes() {
		adj[n.ID()] = dgraph.Successors(n)
	}
	return adj
}

// Reachable lists every node id reachable from g's start node,
// following Ask answer edges, Consider answer/else edges, Set/Todo/Call
// next edges, and Call callee edges (§5: nodes are always active —
// there is no probability gating a transition the way there is in a
// probabilistic graph).
func Reachable(g *dgraph.DecisionGraph) ([]dgraph.NodeID, error) {
	start, err := g.Start()
	if err != nil {
		return nil, err
	}

	adj := adjacency(g)
	for _, n := range g.Nodes() {
		if call, ok := n.(*dgraph.CallNode); ok {
			adj[call.Id] = append(adj[call.Id], call.Return)
		}
	}
	visited := map[dgraph.NodeID]bool{start: true}
	queue := []dgraph.NodeID{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	out := make([]dgraph.NodeID, 0, len(visited))
	for id := range visited {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Unreachable lists every node in g not reachable from the start node
// — dead nodes an author would want to know about, since they can
// only ever be entered via a Call whose caller is itself unreachable.
func Unreachable(g *dgraph.DecisionGraph) ([]dgraph.NodeID, error) {
	reachable, err := Reachable(g)
	if err != nil {
		return nil, err
	}
	live := make(map[dgraph.NodeID]bool, len(reachable))
	for _, id := range reachable {
		live[id] = true
	}

	var out []dgraph.NodeID
	for _, n := range g.Nodes() {
		if !live[n.ID()] {
			out = append(out, n.ID())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// pqItem and priorityQueue implement container/heap.Interface, mirroring
// the PQItem/PriorityQueue shape ritamzico-pgraph/internal/inference
// uses for MaxProbabilityPath, but ordered by ascending hop-count
// distance instead of descending probability.
type pqItem struct {
	id   dgraph.NodeID
	dist int
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)         { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// shortestPath runs Dijkstra with uniform edge weight 1 over adj from
// start to target, returning the node sequence (inclusive of both
// ends) or nil if target is unreachable.
func shortestPath(adj map[dgraph.NodeID][]dgraph.NodeID, start, target dgraph.NodeID) []dgraph.NodeID {
	const unvisited = -1
	dist := map[dgraph.NodeID]int{start: 0}
	prev := make(map[dgraph.NodeID]dgraph.NodeID)

	pq := &priorityQueue{{id: start, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(pqItem)
		if cur.id == target {
			break
		}
		if cur.dist > dist[cur.id] {
			continue
		}
		for _, next := range adj[cur.id] {
			alt := dist[cur.id] + 1
			if d, ok := dist[next]; !ok || alt < d {
				dist[next] = alt
				prev[next] = cur.id
				heap.Push(pq, pqItem{id: next, dist: alt})
			}
		}
	}

	if _, ok := dist[target]; !ok {
		return nil
	}

	var path []dgraph.NodeID
	for at := target; ; {
		path = append(path, at)
		if at == start {
			break
		}
		at = prev[at]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// ShortestQuestionPath reports the fewest node-visits from g's start
// node to target — "how many questions does the shortest path to this
// outcome take". Returns nil with no error if target is unreachable.
// A Call node's return continuation is not followed as an edge, so a
// node entered only by returning from a call also yields nil.
func ShortestQuestionPath(g *dgraph.DecisionGraph, target dgraph.NodeID) ([]dgraph.NodeID, error) {
	start, err := g.Start()
	if err != nil {
		return nil, err
	}
	if !g.Contains(target) {
		return nil, unknownNode(string(target))
	}
	return shortestPath(adjacency(g), start, target), nil
}

func equalPrefix(a, b []dgraph.NodeID) bool {
	if len(a) < len(b) {
		return false
	}
	for i := range b {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TopKShortestQuestionPaths adapts Yen's algorithm (as
// TopKMaxProbabilityPaths does for probability) to report the K
// shortest distinct node sequences from g's start node to target.
// Fewer than k paths may exist; the result is simply shorter.
func TopKShortestQuestionPaths(g *dgraph.DecisionGraph, target dgraph.NodeID, k int) ([][]dgraph.NodeID, error) {
	if k <= 0 {
		return nil, invalidK(k)
	}
	start, err := g.Start()
	if err != nil {
		return nil, err
	}
	if !g.Contains(target) {
		return nil, unknownNode(string(target))
	}

	adj := adjacency(g)

	first := shortestPath(adj, start, target)
	if first == nil {
		return nil, nil
	}
	results := [][]dgraph.NodeID{first}

	for i := 1; i < k; i++ {
		prevPath := results[i-1]
		var candidates [][]dgraph.NodeID

		for spurIdx := 0; spurIdx < len(prevPath)-1; spurIdx++ {
			spurNode := prevPath[spurIdx]
			rootPath := prevPath[:spurIdx+1]

			pruned := make(map[dgraph.NodeID][]dgraph.NodeID, len(adj))
			for id, succ := range adj {
				pruned[id] = append([]dgraph.NodeID(nil), succ...)
			}
			for _, p := range results {
				if len(p) > spurIdx+1 && equalPrefix(p, rootPath) {
					from, to := p[spurIdx], p[spurIdx+1]
					filtered := pruned[from][:0]
					for _, n := range pruned[from] {
						if n != to {
							filtered = append(filtered, n)
						}
					}
					pruned[from] = filtered
				}
			}

			spurPath := shortestPath(pruned, spurNode, target)
			if spurPath == nil {
				continue
			}

			full := append(append([]dgraph.NodeID(nil), rootPath[:len(rootPath)-1]...), spurPath...)

			duplicate := false
			for _, c := range candidates {
				if len(c) == len(full) && equalPrefix(c, full) {
					duplicate = true
					break
				}
			}
			if !duplicate {
				candidates = append(candidates, full)
			}
		}

		if len(candidates) == 0 {
			break
		}

		bestIdx := 0
		for j := 1; j < len(candidates); j++ {
			if len(candidates[j]) < len(candidates[bestIdx]) {
				bestIdx = j
			}
		}
		results = append(results, candidates[bestIdx])
	}

	return results, nil
}

// targetResult pairs a target node id with its computed path, or an
// error, mirroring the index-tagged result pattern
// query.composite_queries's executeConcurrent uses to fan results back
// in order.
type targetResult struct {
	target dgraph.NodeID
	path   []dgraph.NodeID
	err    error
}

// maxWorkers bounds the fan-out below so AnalyzeTargets doesn't spawn
// one goroutine per target on a large questionnaire.
const maxWorkers = 8

// AnalyzeTargets computes ShortestQuestionPath for every target
// concurrently, bounded by a small worker pool, and returns a map from
// target to its path. This runs over a read-only compiled graph
// outside any single interpreter run, so it does not violate the
// single-threaded-interpreter constraint on a live traversal (§5).
func AnalyzeTargets(g *dgraph.DecisionGraph, targets []dgraph.NodeID) (map[dgraph.NodeID][]dgraph.NodeID, error) {
	start, err := g.Start()
	if err != nil {
		return nil, err
	}
	adj := adjacency(g)

	jobs := make(chan dgraph.NodeID)
	resCh := make(chan targetResult, len(targets))

	workers := maxWorkers
	if workers > len(targets) {
		workers = len(targets)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for target := range jobs {
				if !g.Contains(target) {
					resCh <- targetResult{target: target, err: unknownNode(string(target))}
					continue
				}
				resCh <- targetResult{target: target, path: shortestPath(adj, start, target)}
			}
		}()
	}

	go func() {
		for _, t := range targets {
			jobs <- t
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(resCh)
	}()

	out := make(map[dgraph.NodeID][]dgraph.NodeID, len(targets))
	for r := range resCh {
		if r.err != nil {
			return nil, r.err
		}
		out[r.target] = r.path
	}
	return out, nil
}

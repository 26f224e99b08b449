package geometry

// TopologicalOrder merges stop name sequences into one order that respects
// every consecutive pair of every sequence. Among nodes that are ready at the
// same time the one seen first wins, so the result is deterministic. Repeated
// names in a row are not constraints. Returns ErrMergeCycle when no order exists.
func TopologicalOrder(sequences [][]string) ([]string, error) {
	index := make(map[string]int)
	var names []string
	for _, seq := range sequences {
		for _, name := range seq {
			if _, ok := index[name]; !ok {
				index[name] = len(names)
				names = append(names, name)
			}
		}
	}

	successors := make([][]int, len(names))
	indegree := make([]int, len(names))
	seenEdge := make(map[[2]int]bool)
	for _, seq := range sequences {
		for i := 0; i+1 < len(seq); i++ {
			from, to := index[seq[i]], index[seq[i+1]]
			if from == to || seenEdge[[2]int{from, to}] {
				continue
			}
			seenEdge[[2]int{from, to}] = true
			successors[from] = append(successors[from], to)
			indegree[to]++
		}
	}

	ready := newMinQueue()
	for node, degree := range indegree {
		if degree == 0 {
			ready.push(node)
		}
	}

	order := make([]string, 0, len(names))
	for ready.len() > 0 {
		node := ready.pop()
		order = append(order, names[node])
		for _, next := range successors[node] {
			indegree[next]--
			if indegree[next] == 0 {
				ready.push(next)
			}
		}
	}

	if len(order) != len(names) {
		return nil, ErrMergeCycle
	}
	return order, nil
}

// minQueue is a sorted set of node indexes. Graphs here are a few dozen
// stops, so insertion into a sorted slice is enough.
type minQueue struct {
	items []int
}

func newMinQueue() *minQueue {
	return &minQueue{}
}

func (q *minQueue) push(v int) {
	i := len(q.items)
	for i > 0 && q.items[i-1] > v {
		i--
	}
	q.items = append(q.items, 0)
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = v
}

func (q *minQueue) pop() int {
	v := q.items[0]
	q.items = q.items[1:]
	return v
}

func (q *minQueue) len() int {
	return len(q.items)
}

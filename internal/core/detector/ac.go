package detector

// Aho-Corasick over folded UTF-8 bytes. Each node carries a dense 256-way
// transition table; the automaton is read-only once build returns and may be
// scanned from any number of goroutines

type acNode struct {
	next [256]int32 // -1 when absent
	fail int32
	out  []int // term ids ending here, failure outputs merged in
}

type automaton struct {
	nodes []acNode
	lens  []int // term id -> byte length
}

func newNode() acNode {
	var n acNode
	for i := range n.next {
		n.next[i] = -1
	}
	return n
}

func newAutomaton() *automaton {
	return &automaton{nodes: []acNode{newNode()}}
}

// add inserts pat under id; empty patterns are ignored
func (a *automaton) add(pat []byte, id int) {
	if len(pat) == 0 {
		return
	}
	for len(a.lens) <= id {
		a.lens = append(a.lens, 0)
	}
	a.lens[id] = len(pat)

	var s int32
	for _, b := range pat {
		nx := a.nodes[s].next[b]
		if nx == -1 {
			nx = int32(len(a.nodes))
			a.nodes[s].next[b] = nx
			a.nodes = append(a.nodes, newNode())
		}
		s = nx
	}
	a.nodes[s].out = append(a.nodes[s].out, id)
}

// build computes failure links breadth first
func (a *automaton) build() {
	queue := make([]int32, 0, len(a.nodes))
	for b := range 256 {
		if s := a.nodes[0].next[b]; s != -1 {
			a.nodes[s].fail = 0
			queue = append(queue, s)
		}
	}
	for qi := 0; qi < len(queue); qi++ {
		r := queue[qi]
		for b := range 256 {
			s := a.nodes[r].next[b]
			if s == -1 {
				continue
			}
			queue = append(queue, s)

			f := a.nodes[r].fail
			for f != 0 && a.nodes[f].next[b] == -1 {
				f = a.nodes[f].fail
			}
			if nx := a.nodes[f].next[b]; nx != -1 && nx != s {
				a.nodes[s].fail = nx
			}
			a.nodes[s].out = append(a.nodes[s].out, a.nodes[a.nodes[s].fail].out...)
		}
	}
}

// scan reports every match, overlaps included, as [start, end) byte spans.
// Returning false from fn stops the scan
func (a *automaton) scan(text []byte, fn func(start, end, id int) bool) {
	var s int32
	for i, b := range text {
		for s != 0 && a.nodes[s].next[b] == -1 {
			s = a.nodes[s].fail
		}
		if nx := a.nodes[s].next[b]; nx != -1 {
			s = nx
		}
		for _, id := range a.nodes[s].out {
			end := i + 1
			if !fn(end-a.lens[id], end, id) {
				return
			}
		}
	}
}

package rules

// Aho-Corasick over UTF-8 bytes; substring hits on valid UTF-8 never split a rune
// Fixed 256-way transition table per node keeps the scan free of map lookups

type acNode struct {
	// trans[b] = next state or -1 if absent
	trans  [256]int
	fail   int
	output []int // keyword ids ending at this node
}

type automaton struct {
	nodes []acNode
}

func newNode() acNode {
	var n acNode
	for i := range n.trans {
		n.trans[i] = -1
	}
	return n
}

func newAutomaton() *automaton {
	return &automaton{nodes: []acNode{newNode()}}
}

// add inserts a pattern and associates it with id
func (a *automaton) add(pat []byte, id int) {
	if len(pat) == 0 {
		return
	}
	state := 0
	for _, b := range pat {
		nxt := a.nodes[state].trans[b]
		if nxt == -1 {
			nxt = len(a.nodes)
			a.nodes[state].trans[b] = nxt
			a.nodes = append(a.nodes, newNode())
		}
		state = nxt
	}
	a.nodes[state].output = append(a.nodes[state].output, id)
}

// build finalizes failure links breadth first
func (a *automaton) build() {
	q := make([]int, 0, len(a.nodes))
	for b := range 256 {
		if s := a.nodes[0].trans[b]; s != -1 {
			a.nodes[s].fail = 0
			q = append(q, s)
		}
	}

	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for b := range 256 {
			s := a.nodes[r].trans[b]
			if s == -1 {
				continue
			}
			q = append(q, s)

			f := a.nodes[r].fail
			for f != 0 && a.nodes[f].trans[b] == -1 {
				f = a.nodes[f].fail
			}
			if nxt := a.nodes[f].trans[b]; nxt != -1 {
				a.nodes[s].fail = nxt
			} else {
				a.nodes[s].fail = 0
			}
			a.nodes[s].output = append(a.nodes[s].output, a.nodes[a.nodes[s].fail].output...)
		}
	}
}

// scan calls cb(id) for each match; returning false stops early
func (a *automaton) scan(text []byte, cb func(id int) bool) {
	state := 0
	for _, b := range text {
		for state != 0 && a.nodes[state].trans[b] == -1 {
			state = a.nodes[state].fail
		}
		if nxt := a.nodes[state].trans[b]; nxt != -1 {
			state = nxt
		}
		for _, id := range a.nodes[state].output {
			if !cb(id) {
				return
			}
		}
	}
}

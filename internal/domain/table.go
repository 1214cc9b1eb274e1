package domain

// Pair is one attack on the table with its optional answer.
type Pair struct {
	Attack Card  `json:"attack"`
	Defend *Card `json:"defend,omitempty"`
}

// Open reports whether the attack is still unanswered.
func (p Pair) Open() bool { return p.Defend == nil }

// Table is the ordered set of pairs in the current bout.
type Table []Pair

// OpenCount returns the number of unanswered attacks.
func (t Table) OpenCount() int {
	n := 0
	for _, p := range t {
		if p.Open() {
			n++
		}
	}
	return n
}

// Covered reports whether every attack has been beaten.
func (t Table) Covered() bool { return t.OpenCount() == 0 }

// AllOpen reports whether no attack has been answered yet.
func (t Table) AllOpen() bool { return t.OpenCount() == len(t) }

// HasRank reports whether any attack or defence card has rank r.
func (t Table) HasRank(r Rank) bool {
	for _, p := range t {
		if p.Attack.Rank == r || (p.Defend != nil && p.Defend.Rank == r) {
			return true
		}
	}
	return false
}

// Cards flattens both slots of every pair.
func (t Table) Cards() []Card {
	out := make([]Card, 0, len(t)*2)
	for _, p := range t {
		out = append(out, p.Attack)
		if p.Defend != nil {
			out = append(out, *p.Defend)
		}
	}
	return out
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, p := range t {
		out[i].Attack = p.Attack
		if p.Defend != nil {
			d := *p.Defend
			out[i].Defend = &d
		}
	}
	return out
}

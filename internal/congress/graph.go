// Package congress holds the influence graph of a legislative body: members
// with ideal-policy vectors, directed influence edges between them, and
// party groupings with a discipline coefficient.
//
// The graph is an arena. Members are addressed by stable integer handles
// assigned in insertion order; edges and party membership are stored as
// handle-indexed tables. Nothing here is safe for concurrent mutation.
package congress

// Handle is a stable index of a member within a Graph.
type Handle int

// Member is a single legislator.
type Member struct {
	ID    string    `json:"id"`
	Ideal []float64 `json:"ideal"` // Position in policy space
	Bias  float64   `json:"bias"`  // Fixed personal lean added to the initial score
	Swing float64   `json:"swing"` // Responsiveness to social pressure, typically [0, 1]
}

// Edge is a directed influence relation: From pressures To with Weight.
type Edge struct {
	From   Handle  `json:"from"`
	To     Handle  `json:"to"`
	Weight float64 `json:"weight"`
}

// Party groups members under a shared discipline coefficient.
type Party struct {
	ID         string   `json:"id"`
	Discipline float64  `json:"discipline"` // Pull of the party line, [0, 1]
	Members    []Handle `json:"members"`
}

// Graph owns all members, edges and parties of a legislative body.
type Graph struct {
	members  []Member
	incoming [][]Edge // incoming[h] lists edges whose To is h
	edges    []Edge   // insertion order, for rendering
	parties  []Party
	partyOf  map[Handle]int
	byID     map[string]Handle
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		partyOf: make(map[Handle]int),
		byID:    make(map[string]Handle),
	}
}

// AddMember inserts m and returns its handle. Duplicate ids are not
// rejected here; Lookup resolves to the most recently added one.
func (g *Graph) AddMember(m Member) Handle {
	h := Handle(len(g.members))
	g.members = append(g.members, m)
	g.incoming = append(g.incoming, nil)
	g.byID[m.ID] = h
	return h
}

// AddEdge inserts a directed edge from -> to. Both handles must come from
// AddMember on this graph. Parallel edges are kept.
func (g *Graph) AddEdge(from, to Handle, weight float64) {
	e := Edge{From: from, To: to, Weight: weight}
	g.incoming[to] = append(g.incoming[to], e)
	g.edges = append(g.edges, e)
}

// AddParty inserts p and records each member's party index, returning the
// index of the new party. A member already in another party is moved to
// this one.
func (g *Graph) AddParty(p Party) int {
	idx := len(g.parties)
	for _, h := range p.Members {
		g.partyOf[h] = idx
	}
	g.parties = append(g.parties, p)
	return idx
}

// PartyOf returns the party index of the member, if any.
func (g *Graph) PartyOf(h Handle) (int, bool) {
	idx, ok := g.partyOf[h]
	return idx, ok
}

// Party returns the party at index, if it exists.
func (g *Graph) Party(index int) (*Party, bool) {
	if index < 0 || index >= len(g.parties) {
		return nil, false
	}
	return &g.parties[index], true
}

// Len returns the number of members.
func (g *Graph) Len() int {
	return len(g.members)
}

// Member returns the member at h.
func (g *Graph) Member(h Handle) Member {
	return g.members[h]
}

// Members returns all members in handle order. The slice must not be modified.
func (g *Graph) Members() []Member {
	return g.members
}

// Incoming returns the edges pointing at h.
func (g *Graph) Incoming(h Handle) []Edge {
	return g.incoming[h]
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Parties returns all parties in insertion order.
func (g *Graph) Parties() []Party {
	return g.parties
}

// Lookup resolves a member id to its handle.
func (g *Graph) Lookup(id string) (Handle, bool) {
	h, ok := g.byID[id]
	return h, ok
}

// Dimension returns the length of the first member's ideal vector, or 0
// for an empty graph.
func (g *Graph) Dimension() int {
	if len(g.members) == 0 {
		return 0
	}
	return len(g.members[0].Ideal)
}

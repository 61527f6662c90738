package graph

// Merge returns the union of existing and fragment, deduplicated by ID.
//
// Entries already in existing win over fragment entries with the same ID, so
// positions and labels the graph already has are never overwritten. Existing
// order is kept and new entries are appended in fragment order. Neither input
// is modified.
func Merge(existing, fragment Graph) Graph {
	out := existing.Clone()

	seenNodes := make(map[string]struct{}, len(existing.Nodes)+len(fragment.Nodes))
	for _, n := range out.Nodes {
		seenNodes[n.ID] = struct{}{}
	}
	for _, n := range fragment.Nodes {
		if _, ok := seenNodes[n.ID]; ok {
			continue
		}
		seenNodes[n.ID] = struct{}{}
		if n.Position != nil {
			p := *n.Position
			n.Position = &p
		}
		out.Nodes = append(out.Nodes, n)
	}

	seenEdges := make(map[string]struct{}, len(existing.Edges)+len(fragment.Edges))
	for _, e := range out.Edges {
		seenEdges[e.ID] = struct{}{}
	}
	for _, e := range fragment.Edges {
		if _, ok := seenEdges[e.ID]; ok {
			continue
		}
		seenEdges[e.ID] = struct{}{}
		out.Edges = append(out.Edges, e)
	}

	return out
}

// NewNodeIDs returns the IDs of fragment nodes that are not in existing,
// in fragment order and without duplicates.
func NewNodeIDs(existing, fragment Graph) []string {
	known := existing.NodeIndex()
	var ids []string
	for _, n := range fragment.Nodes {
		if _, ok := known[n.ID]; ok {
			continue
		}
		known[n.ID] = -1
		ids = append(ids, n.ID)
	}
	return ids
}

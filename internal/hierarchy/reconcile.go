package hierarchy

// MergeResult is the outcome of reconciling two node lists at one tree level.
// Every input node is accounted for exactly once: base nodes come back in
// Merged (enriched with whatever matched them), incoming nodes either merged
// into a base node or came back in Orphans.
type MergeResult struct {
	Merged  []*CampaignNode
	Orphans []*CampaignNode
}

// Nodes returns the merged nodes followed by the orphans, the order the
// unified tree presents them in.
func (r MergeResult) Nodes() []*CampaignNode {
	out := make([]*CampaignNode, 0, len(r.Merged)+len(r.Orphans))
	out = append(out, r.Merged...)
	out = append(out, r.Orphans...)
	return out
}

// Reconcile matches incoming nodes against base nodes by normalized name and
// merges them level by level. The base side keeps its funnel-stage counters
// and name; matched incoming nodes contribute spend and revenue, summed across
// every match (near-duplicate incoming names collapse into one base node).
//
// used records incoming IDs consumed by earlier base nodes within this
// invocation; matching is first-come-first-served in base order. The set is
// scoped to a single merge, never shared across requests.
//
// When base and match both carry children, the children are reconciled
// recursively with a fresh used set and the parent is rolled up afterwards so
// the sum invariant survives the merge; when either side is a leaf, the
// match's totals fold in at the matched level instead. Inputs are cloned,
// never aliased into the result.
func Reconcile(base, incoming []*CampaignNode, used map[string]bool) MergeResult {
	if used == nil {
		used = make(map[string]bool)
	}

	var result MergeResult
	for _, b := range base {
		merged := b.Clone()
		matches := findMatches(merged.Name, incoming, used)

		// Children merge recursively only when both sides carry them: a
		// childless match folds its totals in at this level, and a match
		// with children folds as totals too when the base node is a leaf,
		// so the base node's own counters and revenue are never displaced
		// by adopted children.
		var flat []*CampaignNode
		var incomingChildren []*CampaignNode
		for _, m := range matches {
			used[m.ID] = true
			if len(m.Children) > 0 && len(merged.Children) > 0 {
				incomingChildren = append(incomingChildren, m.Children...)
			} else {
				flat = append(flat, m)
			}
		}

		if len(incomingChildren) > 0 {
			childResult := Reconcile(merged.Children, incomingChildren, make(map[string]bool))
			merged.Children = childResult.Nodes()
			merged.RollUp()
		}
		for _, m := range flat {
			merged.Spend += m.Spend
			merged.Revenue += m.Revenue
		}
		merged.RecomputeROAS()
		result.Merged = append(result.Merged, merged)
	}

	for _, in := range incoming {
		if used[in.ID] {
			continue
		}
		used[in.ID] = true
		result.Orphans = append(result.Orphans, orphan(in))
	}
	return result
}

// findMatches returns the unused incoming nodes that should merge into the
// named base node: every exact normalized-name match, or, when there is none,
// every substring containment match in either direction.
func findMatches(name string, incoming []*CampaignNode, used map[string]bool) []*CampaignNode {
	norm := Normalize(name)
	if norm == "" {
		return nil
	}

	var exact []*CampaignNode
	for _, in := range incoming {
		if !used[in.ID] && Normalize(in.Name) == norm {
			exact = append(exact, in)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	var loose []*CampaignNode
	for _, in := range incoming {
		if !used[in.ID] && NamesRelated(norm, Normalize(in.Name)) {
			loose = append(loose, in)
		}
	}
	return loose
}

// orphan deep-copies an unmatched incoming node into the output tree. Funnel
// counters are zeroed at every level since they carry the incoming provider's
// stage semantics, not the base provider's; spend and revenue are preserved.
func orphan(n *CampaignNode) *CampaignNode {
	out := n.Clone()
	zeroStages(out)
	out.RollUp()
	return out
}

func zeroStages(n *CampaignNode) {
	n.IsOrphan = true
	n.StageMetrics = StageMetrics{}
	n.GhostLeads = 0
	for _, child := range n.Children {
		zeroStages(child)
	}
}

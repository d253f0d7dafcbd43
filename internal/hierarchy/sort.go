package hierarchy

import "sort"

// SortTree orders sibling nodes for presentation, recursively: spend
// descending, then revenue descending, then name ascending as a stable
// tie-break.
func SortTree(nodes []*CampaignNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Spend != b.Spend {
			return a.Spend > b.Spend
		}
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})
	for _, n := range nodes {
		SortTree(n.Children)
	}
}

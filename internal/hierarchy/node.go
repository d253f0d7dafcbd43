package hierarchy

// Level identifies the tier of a node inside a campaign tree.
type Level string

const (
	LevelCampaign Level = "campaign"
	LevelAdGroup  Level = "ad_group"
	LevelAd       Level = "ad"
)

// Status represents the delivery state of a campaign entity.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// StageCount is the maximum number of funnel stages a tenant can configure.
const StageCount = 5

// StageMetrics holds the funnel counters for a node. The meaning of each
// position is given by the stage labels returned alongside the tree: for the
// CRM source they follow the tenant's journey map, for the ads source they are
// fixed (impressions, clicks, leads).
type StageMetrics [StageCount]int64

// Add sums another set of counters into m position by position.
func (m *StageMetrics) Add(other StageMetrics) {
	for i := range m {
		m[i] += other[i]
	}
}

// IsZero reports whether every counter is zero.
func (m StageMetrics) IsZero() bool {
	for _, v := range m {
		if v != 0 {
			return false
		}
	}
	return true
}

// CampaignNode is the canonical unit of the unified campaign tree. Nodes are
// built fresh on every request and are read-only once returned; children are
// exclusively owned by their parent.
type CampaignNode struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Level        Level           `json:"level"`
	Status       Status          `json:"status"`
	StageMetrics StageMetrics    `json:"stage_metrics"`
	Spend        float64         `json:"spend"`
	Revenue      float64         `json:"revenue"`
	ROAS         float64         `json:"roas"`
	GhostLeads   int64           `json:"ghost_leads,omitempty"`
	IsOrphan     bool            `json:"is_orphan,omitempty"`
	Children     []*CampaignNode `json:"children,omitempty"`
}

// RecomputeROAS derives ROAS from the node's current revenue and spend.
// Nodes without spend report 0, never NaN.
func (n *CampaignNode) RecomputeROAS() {
	if n.Spend > 0 {
		n.ROAS = n.Revenue / n.Spend
	} else {
		n.ROAS = 0
	}
}

// RollUp recomputes the node's counters, spend and revenue bottom-up from its
// children. Leaves keep their own values. ROAS is re-derived at every level.
func (n *CampaignNode) RollUp() {
	if len(n.Children) > 0 {
		var metrics StageMetrics
		var spend, revenue float64
		var ghost int64
		for _, child := range n.Children {
			child.RollUp()
			metrics.Add(child.StageMetrics)
			spend += child.Spend
			revenue += child.Revenue
			ghost += child.GhostLeads
		}
		n.StageMetrics = metrics
		n.Spend = spend
		n.Revenue = revenue
		n.GhostLeads = ghost
	}
	n.RecomputeROAS()
}

// Clone returns a deep copy of the node. Merging always works on clones so
// that adapter output is never aliased into the merged tree.
func (n *CampaignNode) Clone() *CampaignNode {
	out := *n
	if len(n.Children) > 0 {
		out.Children = make([]*CampaignNode, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	} else {
		out.Children = nil
	}
	return &out
}

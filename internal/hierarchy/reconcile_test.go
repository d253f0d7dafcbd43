package hierarchy

import "testing"

func campaignNode(id, name string, metrics StageMetrics, spend, revenue float64) *CampaignNode {
	n := &CampaignNode{
		ID:           id,
		Name:         name,
		Level:        LevelCampaign,
		Status:       StatusActive,
		StageMetrics: metrics,
		Spend:        spend,
		Revenue:      revenue,
	}
	n.RecomputeROAS()
	return n
}

func TestReconcileMatchesByNormalizedName(t *testing.T) {
	base := []*CampaignNode{
		campaignNode("kommo:1", "Summer Sale", StageMetrics{100, 40, 10, 0, 0}, 0, 500),
	}
	incoming := []*CampaignNode{
		campaignNode("meta:9", "summer-sale!!", StageMetrics{100, 40, 10, 0, 0}, 200, 0),
	}

	result := Reconcile(base, incoming, make(map[string]bool))

	if len(result.Merged) != 1 || len(result.Orphans) != 0 {
		t.Fatalf("got %d merged, %d orphans, want 1 and 0", len(result.Merged), len(result.Orphans))
	}
	got := result.Merged[0]
	if got.Name != "Summer Sale" {
		t.Errorf("name = %q, base name must win", got.Name)
	}
	if got.Spend != 200 {
		t.Errorf("spend = %v, want 200", got.Spend)
	}
	if got.Revenue != 500 {
		t.Errorf("revenue = %v, want 500", got.Revenue)
	}
	if got.StageMetrics != (StageMetrics{100, 40, 10, 0, 0}) {
		t.Errorf("stage metrics = %v, must come from the base side", got.StageMetrics)
	}
	if got.ROAS != 2.5 {
		t.Errorf("roas = %v, want 500/200 = 2.5", got.ROAS)
	}
}

func TestReconcileUnmatchedIncomingBecomesOrphan(t *testing.T) {
	base := []*CampaignNode{
		campaignNode("kommo:1", "Summer Sale", StageMetrics{100, 40, 10, 0, 0}, 0, 500),
	}
	incoming := []*CampaignNode{
		campaignNode("meta:9", "Black Friday", StageMetrics{5000, 300, 20, 0, 0}, 750, 0),
	}

	result := Reconcile(base, incoming, make(map[string]bool))

	if len(result.Orphans) != 1 {
		t.Fatalf("got %d orphans, want 1", len(result.Orphans))
	}
	orphan := result.Orphans[0]
	if !orphan.IsOrphan {
		t.Error("orphan not flagged")
	}
	if !orphan.StageMetrics.IsZero() {
		t.Errorf("orphan stage metrics = %v, want all zero", orphan.StageMetrics)
	}
	if orphan.Spend != 750 {
		t.Errorf("orphan spend = %v, want its own 750 preserved", orphan.Spend)
	}
	if orphan.Revenue != 0 || orphan.ROAS != 0 {
		t.Errorf("orphan revenue/roas = %v/%v, want 0/0", orphan.Revenue, orphan.ROAS)
	}
}

func TestReconcileManyToOneCollapse(t *testing.T) {
	base := []*CampaignNode{
		campaignNode("kommo:1", "Promo Verao", StageMetrics{10, 4, 1, 0, 0}, 0, 100),
	}
	incoming := []*CampaignNode{
		campaignNode("meta:1", "promo_verao", StageMetrics{}, 30, 0),
		campaignNode("meta:2", "PROMO VERAO", StageMetrics{}, 45, 0),
	}

	result := Reconcile(base, incoming, make(map[string]bool))

	if len(result.Merged) != 1 || len(result.Orphans) != 0 {
		t.Fatalf("got %d merged, %d orphans, want collapse into one", len(result.Merged), len(result.Orphans))
	}
	if got := result.Merged[0].Spend; got != 75 {
		t.Errorf("spend = %v, want 30+45", got)
	}
}

func TestReconcileSubstringFallback(t *testing.T) {
	base := []*CampaignNode{
		campaignNode("kommo:1", "Lancamento", StageMetrics{7, 0, 0, 0, 0}, 0, 0),
	}
	incoming := []*CampaignNode{
		campaignNode("meta:1", "Lancamento Curso X", StageMetrics{}, 60, 0),
	}

	result := Reconcile(base, incoming, make(map[string]bool))

	if len(result.Orphans) != 0 {
		t.Fatal("containment match expected, got orphan")
	}
	if result.Merged[0].Spend != 60 {
		t.Errorf("spend = %v, want 60", result.Merged[0].Spend)
	}
}

func TestReconcileFirstMatchWins(t *testing.T) {
	base := []*CampaignNode{
		campaignNode("kommo:1", "Sale", StageMetrics{1, 0, 0, 0, 0}, 0, 0),
		campaignNode("kommo:2", "Summer Sale", StageMetrics{2, 0, 0, 0, 0}, 0, 0),
	}
	incoming := []*CampaignNode{
		campaignNode("meta:1", "Summer Sale", StageMetrics{}, 40, 0),
	}

	result := Reconcile(base, incoming, make(map[string]bool))

	if result.Merged[0].Spend != 40 {
		t.Errorf("earlier base node should take the match, spend = %v", result.Merged[0].Spend)
	}
	if result.Merged[1].Spend != 0 {
		t.Errorf("later base node must stay unaffected, spend = %v", result.Merged[1].Spend)
	}
	if len(result.Orphans) != 0 {
		t.Errorf("consumed incoming node must not orphan, got %d", len(result.Orphans))
	}
}

func TestReconcileCompleteness(t *testing.T) {
	base := []*CampaignNode{
		campaignNode("kommo:1", "A", StageMetrics{}, 0, 0),
		campaignNode("kommo:2", "B", StageMetrics{}, 0, 0),
	}
	incoming := []*CampaignNode{
		campaignNode("meta:1", "A", StageMetrics{}, 1, 0),
		campaignNode("meta:2", "C", StageMetrics{}, 2, 0),
		campaignNode("meta:3", "D", StageMetrics{}, 3, 0),
	}

	result := Reconcile(base, incoming, make(map[string]bool))

	if got := len(result.Merged) + len(result.Orphans); got != 4 {
		t.Fatalf("output accounts for %d nodes, want 2 base + 2 orphans", got)
	}
	seen := map[string]bool{}
	for _, n := range result.Nodes() {
		if seen[n.ID] {
			t.Errorf("node %s duplicated in output", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestReconcileEmptyBase(t *testing.T) {
	incoming := []*CampaignNode{
		campaignNode("meta:1", "A", StageMetrics{9, 0, 0, 0, 0}, 10, 0),
	}
	result := Reconcile(nil, incoming, make(map[string]bool))
	if len(result.Merged) != 0 || len(result.Orphans) != 1 {
		t.Fatalf("empty base must orphan everything, got %d/%d", len(result.Merged), len(result.Orphans))
	}
}

func TestReconcileEmptyIncoming(t *testing.T) {
	base := []*CampaignNode{
		campaignNode("kommo:1", "A", StageMetrics{3, 1, 0, 0, 0}, 0, 80),
	}
	result := Reconcile(base, nil, make(map[string]bool))
	if len(result.Merged) != 1 || len(result.Orphans) != 0 {
		t.Fatalf("base must pass through, got %d/%d", len(result.Merged), len(result.Orphans))
	}
	if result.Merged[0].Spend != 0 || result.Merged[0].Revenue != 80 {
		t.Error("pass-through node changed numeric fields")
	}
}

func TestReconcileRecursesIntoMatchedChildren(t *testing.T) {
	base := []*CampaignNode{
		{
			ID: "kommo:1", Name: "Summer Sale", Level: LevelCampaign,
			StageMetrics: StageMetrics{100, 40, 10, 0, 0}, Revenue: 500,
			Children: []*CampaignNode{
				{
					ID: "kommo:1:email", Name: "Email", Level: LevelAdGroup,
					StageMetrics: StageMetrics{60, 30, 8, 0, 0}, Revenue: 400,
					Children: []*CampaignNode{
						leaf("kommo:1:email:a", "Promo A", StageMetrics{60, 30, 8, 0, 0}, 0, 400),
					},
				},
				{
					ID: "kommo:1:social", Name: "Social", Level: LevelAdGroup,
					StageMetrics: StageMetrics{40, 10, 2, 0, 0}, Revenue: 100,
					Children: []*CampaignNode{
						leaf("kommo:1:social:a", "Promo B", StageMetrics{40, 10, 2, 0, 0}, 0, 100),
					},
				},
			},
		},
	}
	incoming := []*CampaignNode{
		{
			ID: "meta:1", Name: "summer sale", Level: LevelCampaign, Spend: 130,
			Children: []*CampaignNode{
				{
					ID: "meta:1:email", Name: "email", Level: LevelAdGroup, Spend: 90,
					Children: []*CampaignNode{
						leaf("meta:1:email:a", "promo-a", StageMetrics{1000, 90, 8, 0, 0}, 90, 0),
					},
				},
				{
					ID: "meta:1:generic", Name: "Display", Level: LevelAdGroup, Spend: 40,
					Children: []*CampaignNode{
						leaf("meta:1:generic:a", "banner", StageMetrics{2000, 40, 0, 0, 0}, 40, 0),
					},
				},
			},
		},
	}

	result := Reconcile(base, incoming, make(map[string]bool))

	if len(result.Merged) != 1 {
		t.Fatalf("got %d merged campaigns, want 1", len(result.Merged))
	}
	campaign := result.Merged[0]
	if len(campaign.Children) != 3 {
		t.Fatalf("got %d ad groups, want matched Email + Social + orphan Display", len(campaign.Children))
	}

	var email, display *CampaignNode
	for _, g := range campaign.Children {
		switch g.Name {
		case "Email":
			email = g
		case "Display":
			display = g
		}
	}
	if email == nil || display == nil {
		t.Fatal("expected Email (merged) and Display (orphan) ad groups")
	}
	if email.Spend != 90 {
		t.Errorf("email group spend = %v, want 90 from the ads side", email.Spend)
	}
	if email.StageMetrics != (StageMetrics{60, 30, 8, 0, 0}) {
		t.Errorf("email group metrics = %v, must keep CRM values", email.StageMetrics)
	}
	if !display.IsOrphan || !display.StageMetrics.IsZero() || display.Spend != 40 {
		t.Errorf("display group should be a zero-stage orphan keeping spend, got %+v", display)
	}

	// Campaign totals must be rolled up from the merged children.
	if campaign.Spend != 130 {
		t.Errorf("campaign spend = %v, want 130", campaign.Spend)
	}
	if campaign.Revenue != 500 {
		t.Errorf("campaign revenue = %v, want 500", campaign.Revenue)
	}
	if campaign.StageMetrics != (StageMetrics{100, 40, 10, 0, 0}) {
		t.Errorf("campaign metrics = %v, want CRM roll-up", campaign.StageMetrics)
	}
	if campaign.ROAS != 500.0/130.0 {
		t.Errorf("campaign roas = %v, want recomputed revenue/spend", campaign.ROAS)
	}
}

func TestReconcileDoesNotAliasInputs(t *testing.T) {
	base := []*CampaignNode{
		campaignNode("kommo:1", "Sale", StageMetrics{1, 0, 0, 0, 0}, 0, 10),
	}
	incoming := []*CampaignNode{
		campaignNode("meta:1", "Sale", StageMetrics{}, 5, 0),
	}

	result := Reconcile(base, incoming, make(map[string]bool))
	result.Merged[0].Spend = 1234

	if base[0].Spend != 0 {
		t.Error("merge output aliases the base input")
	}
}

func TestReconcileChildlessMatchFoldsIntoBaseWithChildren(t *testing.T) {
	base := []*CampaignNode{
		{
			ID: "kommo:1", Name: "Summer Sale", Level: LevelCampaign,
			Children: []*CampaignNode{
				leaf("kommo:1:email", "Email", StageMetrics{60, 30, 8, 0, 0}, 0, 400),
			},
		},
	}
	base[0].RollUp()
	incoming := []*CampaignNode{
		campaignNode("meta:1", "summer-sale", StageMetrics{}, 90, 0),
	}

	result := Reconcile(base, incoming, make(map[string]bool))

	if len(result.Merged) != 1 || len(result.Orphans) != 0 {
		t.Fatalf("got %d merged / %d orphans, want 1 / 0", len(result.Merged), len(result.Orphans))
	}
	campaign := result.Merged[0]
	if campaign.Spend != 90 {
		t.Errorf("campaign spend = %v, want match's 90 folded in", campaign.Spend)
	}
	if campaign.Revenue != 400 {
		t.Errorf("campaign revenue = %v, want 400", campaign.Revenue)
	}
	if campaign.StageMetrics != (StageMetrics{60, 30, 8, 0, 0}) {
		t.Errorf("campaign metrics = %v, must keep the children's roll-up", campaign.StageMetrics)
	}
	if campaign.ROAS != 400.0/90.0 {
		t.Errorf("campaign roas = %v, want recomputed revenue/spend", campaign.ROAS)
	}

	// The existing children stay exactly as they were.
	if len(campaign.Children) != 1 {
		t.Fatalf("got %d children, want 1", len(campaign.Children))
	}
	email := campaign.Children[0]
	if email.Spend != 0 || email.Revenue != 400 || email.StageMetrics != (StageMetrics{60, 30, 8, 0, 0}) {
		t.Errorf("child changed by a childless parent-level match: %+v", email)
	}
}

func TestReconcileMatchChildrenNeverDisplaceLeafBase(t *testing.T) {
	base := []*CampaignNode{
		campaignNode("kommo:1", "Summer Sale", StageMetrics{100, 40, 10, 0, 0}, 0, 500),
	}
	incoming := []*CampaignNode{
		{
			ID: "meta:1", Name: "Summer Sale", Level: LevelCampaign, Spend: 200,
			Children: []*CampaignNode{
				leaf("meta:1:generic", "Display", StageMetrics{5000, 200, 4, 0, 0}, 200, 0),
			},
		},
	}

	result := Reconcile(base, incoming, make(map[string]bool))

	if len(result.Merged) != 1 || len(result.Orphans) != 0 {
		t.Fatalf("got %d merged / %d orphans, want 1 / 0", len(result.Merged), len(result.Orphans))
	}
	campaign := result.Merged[0]
	if campaign.StageMetrics != (StageMetrics{100, 40, 10, 0, 0}) {
		t.Errorf("campaign metrics = %v, base counters must survive the merge", campaign.StageMetrics)
	}
	if campaign.Revenue != 500 {
		t.Errorf("campaign revenue = %v, want 500", campaign.Revenue)
	}
	if campaign.Spend != 200 {
		t.Errorf("campaign spend = %v, want the match's total 200", campaign.Spend)
	}
	if campaign.ROAS != 2.5 {
		t.Errorf("campaign roas = %v, want 2.5", campaign.ROAS)
	}
	if len(campaign.Children) != 0 {
		t.Errorf("leaf base acquired %d children from the match", len(campaign.Children))
	}
}

package challenge

import "testing"

func TestEntryWeightBaseline(t *testing.T) {
	c := &Challenge{PointsWeight: 1.0, ReferralsWeight: 1.0}

	if w := EntryWeight(c, 0, 0); w != 1.0 {
		t.Errorf("weight with nothing = %v, want exactly 1.0", w)
	}
	// Negative balances must not drop anyone below the floor.
	if w := EntryWeight(c, -50, 0); w != 1.0 {
		t.Errorf("weight with negative points = %v, want 1.0", w)
	}
}

func TestEntryWeightPointsContribution(t *testing.T) {
	c := &Challenge{PointsWeight: 1.0, ReferralsWeight: 1.0}
	if w := EntryWeight(c, 2000, 0); w != 3.0 {
		t.Errorf("2000 points at weight 1.0 = %v, want exactly 3.0", w)
	}

	half := &Challenge{PointsWeight: 0.5, ReferralsWeight: 1.0}
	if w := EntryWeight(half, 2000, 0); w != 2.0 {
		t.Errorf("2000 points at weight 0.5 = %v, want exactly 2.0", w)
	}
}

func TestEntryWeightReferralContribution(t *testing.T) {
	c := &Challenge{PointsWeight: 1.0, ReferralsWeight: 1.5}
	if w := EntryWeight(c, 0, 2); w != 4.0 {
		t.Errorf("2 referrals at weight 1.5 = %v, want exactly 4.0", w)
	}
}

func TestEntryWeightCombined(t *testing.T) {
	c := &Challenge{PointsWeight: 2.0, ReferralsWeight: 1.0}
	// 1.0 + 500*2.0/1000 + 3*1.0 = 5.0
	if w := EntryWeight(c, 500, 3); w != 5.0 {
		t.Errorf("combined weight = %v, want exactly 5.0", w)
	}
}

func TestEntryWeightClampedAtFloor(t *testing.T) {
	c := &Challenge{PointsWeight: -4.0, ReferralsWeight: 1.0}
	if w := EntryWeight(c, 500, 0); w != 1.0 {
		t.Errorf("negative contribution = %v, want clamped to 1.0", w)
	}
}

package challenge

// EntryWeight computes a member's draw weight. Every eligible member starts
// at 1.0 so nobody's odds drop to zero; points add their contribution scaled
// down by 1000, referrals add theirs at full scale.
func EntryWeight(c *Challenge, points int, referrals int) float64 {
	weight := 1.0
	if points > 0 {
		weight += float64(points) * c.PointsWeight / 1000.0
	}
	if referrals > 0 {
		weight += float64(referrals) * c.ReferralsWeight
	}
	if weight < 1.0 {
		weight = 1.0
	}
	return weight
}

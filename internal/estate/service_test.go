package estate

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/melvinsclub/club-backend/internal/platform/config"
	"github.com/melvinsclub/club-backend/internal/platform/database"
	"github.com/melvinsclub/club-backend/internal/profile"
)

// seqSource replays a fixed sequence of floats, one per draw.
type seqSource struct {
	floats []float64
	pos    int
}

func (s *seqSource) Float64() float64 {
	v := s.floats[s.pos%len(s.floats)]
	s.pos++
	return v
}

func (s *seqSource) IntN(n int) int { return 0 }

func setupTestDB(t *testing.T) {
	t.Helper()
	database.InitDB(config.SqliteConfig{Path: filepath.Join(t.TempDir(), "club.db")})
	if err := migrateDB(); err != nil {
		t.Fatalf("migrate estate tables: %v", err)
	}
	if err := database.DB.AutoMigrate(&profile.Profile{}, &profile.Referral{}); err != nil {
		t.Fatalf("migrate profile tables: %v", err)
	}
}

func seedProfile(t *testing.T, phone string) *profile.Profile {
	t.Helper()
	p := profile.Profile{Phone: phone, FirstName: "Test", ReferralCode: phone}
	if err := database.DB.Create(&p).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return &p
}

func seedCollection(t *testing.T, totalCards, completionPoints int) *EstateCollection {
	t.Helper()
	now := time.Now()
	c := EstateCollection{
		Name:                   "Highlands Harvest",
		StartDate:              now.Add(-time.Hour),
		EndDate:                now.Add(24 * time.Hour),
		IsActive:               true,
		CompletionRewardPoints: completionPoints,
		TotalCards:             totalCards,
	}
	if err := database.DB.Create(&c).Error; err != nil {
		t.Fatalf("seed collection: %v", err)
	}
	return &c
}

func seedCard(t *testing.T, collectionID uint, number int, rarity string) *EstateCard {
	t.Helper()
	card := EstateCard{
		CollectionID:   collectionID,
		Rarity:         rarity,
		CardNumber:     number,
		Title:          "Card",
		DropMultiplier: 1.0,
		RewardPoints:   10,
		Active:         true,
	}
	if err := database.DB.Create(&card).Error; err != nil {
		t.Fatalf("seed card: %v", err)
	}
	return &card
}

func profilePoints(t *testing.T, id uint) int {
	t.Helper()
	p, err := profile.GetByID(database.DB, id)
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	return p.Points
}

func TestEffectiveWeight(t *testing.T) {
	common := &EstateCard{Rarity: RarityCommon, DropMultiplier: 1.0}
	if w := EffectiveWeight(common); w != 60.0 {
		t.Errorf("common weight = %v, want 60.0", w)
	}

	halved := &EstateCard{Rarity: RarityUncommon, DropMultiplier: 0.5}
	if w := EffectiveWeight(halved); w != 15.0 {
		t.Errorf("uncommon x0.5 weight = %v, want 15.0", w)
	}

	rare := &EstateCard{Rarity: RarityRare, DropMultiplier: 2.0}
	if w := EffectiveWeight(rare); w != 20.0 {
		t.Errorf("rare x2 weight = %v, want 20.0", w)
	}

	unknown := &EstateCard{Rarity: "mythic", DropMultiplier: 1.0}
	if w := EffectiveWeight(unknown); w != 50.0 {
		t.Errorf("unknown rarity weight = %v, want fallback 50.0", w)
	}
}

func TestRevealCardNewThenDuplicate(t *testing.T) {
	setupTestDB(t)
	p := seedProfile(t, "0700000001")
	c := seedCollection(t, 12, 500)
	card := seedCard(t, c.ID, 1, RarityCommon)

	rng := &seqSource{floats: []float64{0.5, 0.5}}

	first, err := RevealCard(rng, p.ID, nil)
	if err != nil {
		t.Fatalf("first reveal: %v", err)
	}
	if first.IsDuplicate {
		t.Error("first reveal flagged duplicate")
	}
	if first.Card.ID != card.ID {
		t.Errorf("revealed card %d, want %d", first.Card.ID, card.ID)
	}
	if first.PointsAwarded != 10 {
		t.Errorf("first reveal points = %d, want 10", first.PointsAwarded)
	}

	second, err := RevealCard(rng, p.ID, nil)
	if err != nil {
		t.Fatalf("second reveal: %v", err)
	}
	if !second.IsDuplicate {
		t.Error("second reveal of owned card not flagged duplicate")
	}
	if second.PointsAwarded != 5 {
		t.Errorf("duplicate reveal points = %d, want 5", second.PointsAwarded)
	}

	var ledger int64
	if err := database.DB.Model(&UserCard{}).Where("profile_id = ?", p.ID).Count(&ledger).Error; err != nil {
		t.Fatalf("count ledger: %v", err)
	}
	if ledger != 2 {
		t.Errorf("ledger rows = %d, want 2 (duplicates recorded separately)", ledger)
	}
	if got := profilePoints(t, p.ID); got != 15 {
		t.Errorf("profile points = %d, want 15", got)
	}
}

func TestRevealMilestoneAtThreeUniqueCards(t *testing.T) {
	setupTestDB(t)
	p := seedProfile(t, "0700000002")
	c := seedCollection(t, 12, 500)
	for i := 1; i <= 4; i++ {
		seedCard(t, c.ID, i, RarityCommon)
	}

	// Four equal-weight cards: quartile midpoints select cards 0..3 in order.
	picks := []float64{0.125, 0.375, 0.625, 0.625}

	for i, want := range []struct {
		points    int
		milestone bool
	}{
		{10, false},
		{10, false},
		{110, true}, // third unique card crosses the milestone
		{5, false},  // duplicate of card 3, milestone not re-triggered
	} {
		out, err := RevealCard(&seqSource{floats: []float64{picks[i]}}, p.ID, nil)
		if err != nil {
			t.Fatalf("reveal %d: %v", i+1, err)
		}
		if out.PointsAwarded != want.points {
			t.Errorf("reveal %d points = %d, want %d", i+1, out.PointsAwarded, want.points)
		}
		if out.MilestoneReached != want.milestone {
			t.Errorf("reveal %d milestone = %v, want %v", i+1, out.MilestoneReached, want.milestone)
		}
	}
}

func TestRevealCompletionBonusOnce(t *testing.T) {
	setupTestDB(t)
	p := seedProfile(t, "0700000003")
	c := seedCollection(t, 2, 500)
	seedCard(t, c.ID, 1, RarityCommon)
	seedCard(t, c.ID, 2, RarityCommon)

	// Midpoints of the two equal halves pick card 0 then card 1.
	if _, err := RevealCard(&seqSource{floats: []float64{0.25}}, p.ID, nil); err != nil {
		t.Fatalf("first reveal: %v", err)
	}
	out, err := RevealCard(&seqSource{floats: []float64{0.75}}, p.ID, nil)
	if err != nil {
		t.Fatalf("second reveal: %v", err)
	}
	if !out.CollectionCompleted {
		t.Fatal("owning every card did not complete the collection")
	}
	if out.PointsAwarded != 510 {
		t.Errorf("completing reveal points = %d, want 510", out.PointsAwarded)
	}

	// A later duplicate must not pay the bonus again.
	dup, err := RevealCard(&seqSource{floats: []float64{0.75}}, p.ID, nil)
	if err != nil {
		t.Fatalf("duplicate reveal: %v", err)
	}
	if dup.CollectionCompleted {
		t.Error("completion bonus awarded twice")
	}

	var completions int64
	if err := database.DB.Model(&CollectionCompletion{}).Where("profile_id = ?", p.ID).Count(&completions).Error; err != nil {
		t.Fatalf("count completions: %v", err)
	}
	if completions != 1 {
		t.Errorf("completion ledger rows = %d, want 1", completions)
	}
	if got := profilePoints(t, p.ID); got != 525 {
		t.Errorf("profile points = %d, want 525", got)
	}
}

func TestRevealCompletionConcurrent(t *testing.T) {
	setupTestDB(t)
	p := seedProfile(t, "0700000004")
	c := seedCollection(t, 2, 500)
	seedCard(t, c.ID, 1, RarityCommon)
	seedCard(t, c.ID, 2, RarityCommon)

	if _, err := RevealCard(&seqSource{floats: []float64{0.25}}, p.ID, nil); err != nil {
		t.Fatalf("setup reveal: %v", err)
	}

	// Two racing reveals of the missing card. The serialized transactions
	// guarantee exactly one completes the collection; the other lands as a
	// duplicate.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := RevealCard(&seqSource{floats: []float64{0.75}}, p.ID, nil); err != nil {
				t.Errorf("racing reveal: %v", err)
			}
		}()
	}
	wg.Wait()

	var completions int64
	if err := database.DB.Model(&CollectionCompletion{}).Where("profile_id = ?", p.ID).Count(&completions).Error; err != nil {
		t.Fatalf("count completions: %v", err)
	}
	if completions != 1 {
		t.Errorf("completion ledger rows = %d, want exactly 1", completions)
	}
	// 10 + (10 + 500) + 5: one setup card, one completing card, one duplicate.
	if got := profilePoints(t, p.ID); got != 525 {
		t.Errorf("profile points = %d, want 525", got)
	}
}

func TestRevealSoftFailures(t *testing.T) {
	setupTestDB(t)
	p := seedProfile(t, "0700000005")

	_, err := RevealCard(&seqSource{floats: []float64{0.5}}, p.ID, nil)
	if !errors.Is(err, ErrNoActiveCollection) {
		t.Errorf("no collection: err = %v, want ErrNoActiveCollection", err)
	}

	seedCollection(t, 12, 500)
	_, err = RevealCard(&seqSource{floats: []float64{0.5}}, p.ID, nil)
	if !errors.Is(err, ErrEmptyCardPool) {
		t.Errorf("empty pool: err = %v, want ErrEmptyCardPool", err)
	}

	// Neither attempt may leave ledger rows or points behind.
	var ledger int64
	if err := database.DB.Model(&UserCard{}).Count(&ledger).Error; err != nil {
		t.Fatalf("count ledger: %v", err)
	}
	if ledger != 0 {
		t.Errorf("ledger rows after failed reveals = %d, want 0", ledger)
	}
	if got := profilePoints(t, p.ID); got != 0 {
		t.Errorf("profile points = %d, want 0", got)
	}
}

func TestActivateCollectionSwap(t *testing.T) {
	setupTestDB(t)
	seedCollection(t, 12, 500)
	second := seedCollection(t, 12, 500)

	if err := ActivateCollection(second.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}

	var collections []EstateCollection
	if err := database.DB.Order("id asc").Find(&collections).Error; err != nil {
		t.Fatalf("load collections: %v", err)
	}
	for _, col := range collections {
		wantActive := col.ID == second.ID
		if col.IsActive != wantActive {
			t.Errorf("collection %d active = %v, want %v", col.ID, col.IsActive, wantActive)
		}
	}
}

func TestGiftCreateAndClaim(t *testing.T) {
	setupTestDB(t)
	sender := seedProfile(t, "0700000006")
	receiver := seedProfile(t, "0700000007")
	c := seedCollection(t, 12, 500)
	card := seedCard(t, c.ID, 1, RarityCommon)

	if _, err := CreateGift(sender.ID, card.ID); err == nil {
		t.Error("gift created for a card the sender does not own")
	}

	if _, err := RevealCard(&seqSource{floats: []float64{0.5}}, sender.ID, nil); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	gift, err := CreateGift(sender.ID, card.ID)
	if err != nil {
		t.Fatalf("create gift: %v", err)
	}
	if len(gift.Token) != 32 {
		t.Errorf("token length = %d, want 32 hex chars", len(gift.Token))
	}

	entry, err := ClaimGift(gift.Token, receiver.ID)
	if err != nil {
		t.Fatalf("claim gift: %v", err)
	}
	if entry.IsDuplicate {
		t.Error("first copy for receiver flagged duplicate")
	}

	if _, err := ClaimGift(gift.Token, receiver.ID); !errors.Is(err, ErrGiftAlreadyClaimed) {
		t.Errorf("second claim err = %v, want ErrGiftAlreadyClaimed", err)
	}
}

package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/melvinsclub/club-backend/internal/estate"
	"github.com/melvinsclub/club-backend/internal/packcode"
	"github.com/melvinsclub/club-backend/internal/platform/config"
	"github.com/melvinsclub/club-backend/internal/platform/database"
	"gorm.io/gorm"
)

type cardSeed struct {
	estateName string
	region     string
	cardNumber int
	rarity     string
	title      string
	flavorText string
}

// The permanent "Tea Estates of Kenya" base collection: 7 common, 3 uncommon,
// 2 rare cards.
var baseCards = []cardSeed{
	{"Kericho Estate", "Rift Valley", 1, estate.RarityCommon, "Golden Slopes", "Kenya's tea capital, where rolling hills meet golden sunshine"},
	{"Nandi Hills Estate", "Rift Valley", 2, estate.RarityCommon, "Highland Heritage", "Historic estate producing smooth, balanced teas since 1912"},
	{"Sotik Valleys", "Rift Valley", 3, estate.RarityCommon, "Valley Mist", "Morning fog creates the perfect microclimate for delicate leaves"},
	{"Kangaita Estate", "Central Kenya", 4, estate.RarityCommon, "Mountain Fresh", "Crisp highland air produces bright, refreshing character"},
	{"Limuru Estate", "Central Kenya", 5, estate.RarityCommon, "Colonial Legacy", "One of Kenya's oldest estates, crafting tea since 1903"},
	{"Tinderet Estate", "Western Kenya", 6, estate.RarityCommon, "Western Jewel", "Rich volcanic soil yields full-bodied, robust flavor"},
	{"Marinyn Estate", "Rift Valley", 7, estate.RarityCommon, "Sunrise Harvest", "First light picking ensures maximum freshness and aroma"},
	{"Aberdare Range Estate", "Central Highlands", 8, estate.RarityUncommon, "Cloud Forest Reserve", "Grown amidst pristine mountain forests at 2,100m elevation"},
	{"Mau Summit Estate", "Rift Valley", 9, estate.RarityUncommon, "Peak Selection", "Extreme altitude creates concentrated, complex flavors"},
	{"Nyambene Hills", "Eastern Kenya", 10, estate.RarityUncommon, "Eastern Promise", "Unique terroir produces distinctive fruity undertones"},
	{"Mount Kenya Estate", "Mount Kenya Foothills", 11, estate.RarityRare, "Glacial Peaks", "Kenya's highest tea estate, snowmelt irrigation creates unmatched purity"},
	{"Kakamega Rainforest Estate", "Western Kenya", 12, estate.RarityRare, "Rainforest Secret", "Kenya's only rainforest tea, the wild ecosystem creates magical notes"},
}

func main() {
	codeCount := flag.Int("codes", 100, "number of pack codes to mint")
	codePoints := flag.Int("points", 10, "points per pack code")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	database.InitDB(cfg.Database.Sqlite)

	if err := database.DB.AutoMigrate(
		&estate.TeaEstate{}, &estate.EstateCollection{}, &estate.EstateCard{},
		&packcode.PackCode{},
	); err != nil {
		panic(fmt.Sprintf("migration failed: %v", err))
	}

	if err := seedBaseCollection(); err != nil {
		panic(fmt.Sprintf("collection seed failed: %v", err))
	}

	codes, err := packcode.GenerateCodes(*codeCount, *codePoints, "Melvins")
	if err != nil {
		panic(fmt.Sprintf("pack code seed failed: %v", err))
	}
	fmt.Printf("Minted %d pack codes worth %d points each.\n", len(codes), *codePoints)
}

func seedBaseCollection() error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		collection := estate.EstateCollection{
			Name:                   "Tea Estates of Kenya",
			Theme:                  "Discover Kenya's Finest Tea Regions",
			Description:            "Your journey through Kenya's legendary tea estates. Collect all 12 cards to unlock exclusive rewards.",
			StartDate:              now,
			EndDate:                now.AddDate(10, 0, 0), // effectively permanent
			IsActive:               true,
			CompletionRewardPoints: 500,
			TotalCards:             12,
		}
		err := tx.Where("name = ?", collection.Name).
			FirstOrCreate(&collection).Error
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}

		for _, seed := range baseCards {
			teaEstate := estate.TeaEstate{
				Name:        seed.estateName,
				Region:      seed.region,
				Description: fmt.Sprintf("Premium %s estate producing exceptional %s grade tea.", seed.region, seed.rarity),
				Active:      true,
			}
			err := tx.Where("name = ?", teaEstate.Name).FirstOrCreate(&teaEstate).Error
			if err != nil {
				return fmt.Errorf("failed to create estate %q: %w", seed.estateName, err)
			}

			card := estate.EstateCard{
				EstateID:       teaEstate.ID,
				CollectionID:   collection.ID,
				Rarity:         seed.rarity,
				CardNumber:     seed.cardNumber,
				Title:          seed.title,
				FlavorText:     seed.flavorText,
				DropMultiplier: 1.0,
				RewardPoints:   10,
				Active:         true,
			}
			err = tx.Where("collection_id = ? AND card_number = ?", collection.ID, seed.cardNumber).
				FirstOrCreate(&card).Error
			if err != nil {
				return fmt.Errorf("failed to create card %d: %w", seed.cardNumber, err)
			}
		}

		fmt.Printf("Collection %q ready with %d cards.\n", collection.Name, len(baseCards))
		return nil
	})
}

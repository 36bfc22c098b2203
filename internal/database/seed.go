package database

import (
	"fmt"

	"gorm.io/gorm"

	"richmarket-bot/internal/models"
)

var initialCategories = []string{
	"GTA 5 RP", "Standoff 2", "Brawl Stars", "Clash Royale",
	"Roblox", "CS 2", "Pubg Mobile", "PUBG (PC/Console)",
	"Discord", "YouTube", "TikTok", "Telegram", "NFT Подарки",
}

type seedItem struct {
	Name  string
	Price float64
}

var initialItems = map[string][]seedItem{
	"Standoff 2": {
		{"1 голда", 0.7},
		{"100 голды", 70},
		{"1000 голды", 700},
		{"3000 голды (донат)", 2600},
		{"Клан", 170},
	},
	"Brawl Stars": {
		{"30 гемов", 190},
		{"80 гемов", 440},
		{"170 гемов", 790},
		{"Brawl Pass", 300},
	},
	"Clash Royale": {
		{"80 гемов", 90},
		{"160 гемов", 185},
		{"240 гемов", 270},
		{"Pass Royale", 400},
	},
	"Pubg Mobile": {
		{"30 UC", 85},
		{"60 UC", 100},
		{"180 UC", 275},
		{"300 UC", 480},
	},
	"PUBG (PC/Console)": {
		{"100 G-Coins", 150},
		{"200 G-Coins", 250},
		{"300 G-Coins", 350},
	},
	"Discord": {
		{"Nitro Full 3 месяца + 2 буста", 70},
		{"Nitro Basic (1 месяц)", 190},
	},
	"Roblox": {
		{"80 робуксов", 130},
		{"200 робуксов", 300},
		{"400 робуксов", 500},
		{"Roblox Premium + 450 робуксов", 550},
	},
	"CS 2": {
		{"Prime", 1480},
		{"Faceit Plus (1 месяц)", 500},
	},
	"Telegram": {
		{"21 звезда", 40},
		{"50 звезд", 85},
		{"100 звезд", 160},
		{"Premium 1 месяц", 360},
		{"Premium 3 месяца", 1250},
		{"Premium 6 месяцев", 1550},
		{"Premium 12 месяцев", 2400},
	},
}

// SeedCatalog inserts the initial categories and items if they are missing.
// Existing rows are left untouched so admin price edits survive restarts.
func SeedCatalog(db *gorm.DB) error {
	for _, name := range initialCategories {
		var category models.Category
		if err := db.Where(models.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}

		for _, item := range initialItems[name] {
			var row models.Item
			err := db.Where(models.Item{CategoryID: category.ID, Name: item.Name}).
				Attrs(models.Item{Price: item.Price}).
				FirstOrCreate(&row).Error
			if err != nil {
				return fmt.Errorf("seed item %q: %w", item.Name, err)
			}
		}
	}
	return nil
}

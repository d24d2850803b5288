package domain

import (
	"time"

	"github.com/lib/pq"
)

type MenuCategory string

const (
	MenuCategoryStarter MenuCategory = "starter"
	MenuCategoryMain    MenuCategory = "main"
	MenuCategorySide    MenuCategory = "side"
	MenuCategoryDessert MenuCategory = "dessert"
	MenuCategoryDrink   MenuCategory = "drink"
)

// MenuItem is a catalog entry. Aliases carry the spoken variants the
// voice pipeline matches against ("coke", "cola" for "coca-cola").
type MenuItem struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"uniqueIndex"`
	Aliases     pq.StringArray `json:"aliases,omitempty" gorm:"type:text[]"`
	Description string         `json:"description,omitempty"`
	Category    MenuCategory   `json:"category" gorm:"index"`
	Price       float64        `json:"price"`
	Currency    string         `json:"currency" gorm:"default:BRL"`
	Available   bool           `json:"available" gorm:"default:true;index"`
	Station     string         `json:"station,omitempty"` // kitchen station that prepares it: grill, fry, cold, bar
	PrepMinutes int            `json:"prep_minutes"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Names returns the item name followed by its aliases, the full set of
// spoken forms that resolve to this item.
func (m *MenuItem) Names() []string {
	names := make([]string, 0, len(m.Aliases)+1)
	names = append(names, m.Name)
	names = append(names, m.Aliases...)
	return names
}

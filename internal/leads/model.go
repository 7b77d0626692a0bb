package leads

import "time"

// Category is the urgency tier that drives reminder cadence.
type Category string

const (
	CategoryHot  Category = "hot"
	CategoryWarm Category = "warm"
	CategoryCold Category = "cold"
)

// Valid reports whether the category is one of the known tiers.
func (c Category) Valid() bool {
	switch c {
	case CategoryHot, CategoryWarm, CategoryCold:
		return true
	}
	return false
}

// Lead is a prospect identified by phone number. Leads are re-categorized
// over time but never deleted.
type Lead struct {
	Phone         string    `json:"phone"`
	Name          string    `json:"name,omitempty"`
	Category      Category  `json:"category"`
	Score         int       `json:"score"`
	LastContactAt time.Time `json:"last_contact_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

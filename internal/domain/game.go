package domain

import "time"

// Restrictions carries the purchase restrictions of a game.
type Restrictions struct {
	MinAge *int `json:"minAge,omitempty"`
}

// HasMinAge reports whether a minimum recipient age is configured.
// A zero or negative value counts as no restriction.
func (r Restrictions) HasMinAge() bool {
	return r.MinAge != nil && *r.MinAge > 0
}

type Game struct {
	ID           string       `json:"id"`
	Key          string       `json:"key"`
	Name         string       `json:"name"`
	PriceCents   int64        `json:"priceCents"`
	Currency     string       `json:"currency"`
	Restrictions Restrictions `json:"restrictions"`
	CreatedAt    time.Time    `json:"createdAt"`
}

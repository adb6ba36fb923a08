package entity

import (
	"time"

	"github.com/google/uuid"
)

type Ad struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"userId"`
	OwnerUsername string    `db:"username" json:"owner,omitempty"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	ImageURL      *string   `db:"image_url" json:"imageUrl"`
	Category      string    `db:"category" json:"category"`
	Condition     string    `db:"condition" json:"condition"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

func (a Ad) String() string {
	return a.Title
}

// AdFilter carries the list view query parameters. Page stays a string so
// that garbage input degrades to the first page instead of a bind error.
type AdFilter struct {
	Query     string `form:"q" json:"q"`
	Category  string `form:"category" json:"category"`
	Condition string `form:"condition" json:"condition"`
	Page      string `form:"page" json:"page"`
}

type AdPage struct {
	Ads         []Ad `json:"-"` // rendered at the top level of the list response
	Number      int  `json:"number"`
	NumPages    int  `json:"numPages"`
	Total       int  `json:"total"`
	HasPrevious bool `json:"hasPrevious"`
	HasNext     bool `json:"hasNext"`
	Previous    int  `json:"previous,omitempty"`
	Next        int  `json:"next,omitempty"`
}

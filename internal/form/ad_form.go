package form

import (
	"strings"

	entity "barter-market/internal/domain"
)

// AdForm is the submission used to create or edit an ad. It does not know who
// is submitting; the caller attaches the owner.
type AdForm struct {
	Title       string `form:"title" json:"title" validate:"required,max=200"`
	Description string `form:"description" json:"description" validate:"required"`
	ImageURL    string `form:"image_url" json:"image_url" validate:"omitempty,web_url,max=200"`
	Category    string `form:"category" json:"category" validate:"required,max=100"`
	Condition   string `form:"condition" json:"condition" validate:"required,max=50"`
}

// AdFormFromAd pre-populates a form with an existing record.
func AdFormFromAd(ad *entity.Ad) AdForm {
	f := AdForm{
		Title:       ad.Title,
		Description: ad.Description,
		Category:    ad.Category,
		Condition:   ad.Condition,
	}
	if ad.ImageURL != nil {
		f.ImageURL = *ad.ImageURL
	}
	return f
}

func (f *AdForm) clean() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.ImageURL = strings.TrimSpace(f.ImageURL)
	f.Category = strings.TrimSpace(f.Category)
	f.Condition = strings.TrimSpace(f.Condition)
}

// Validate trims the submitted values and returns the per-field errors.
func (f *AdForm) Validate() FieldErrors {
	f.clean()
	return check(f)
}

// Apply copies the form values onto ad. An empty image_url clears the column.
func (f *AdForm) Apply(ad *entity.Ad) {
	ad.Title = f.Title
	ad.Description = f.Description
	ad.Category = f.Category
	ad.Condition = f.Condition
	ad.ImageURL = nil
	if f.ImageURL != "" {
		u := f.ImageURL
		ad.ImageURL = &u
	}
}

package form

import (
	"strings"

	entity "barter-market/internal/domain"

	"github.com/google/uuid"
)

// Choice is one selectable ad in the ad_sender field.
type Choice struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

// ProposalForm offers one of the acting user's ads in exchange. The
// selectable set is fixed when the form is built, so an ad owned by somebody
// else fails as an invalid choice rather than as a permission error.
type ProposalForm struct {
	AdSender string `form:"ad_sender" json:"ad_sender"`
	Comment  string `form:"comment" json:"comment"`

	choices []entity.Ad
	sender  *entity.Ad
}

// NewProposalForm scopes the ad_sender choices to ownAds.
func NewProposalForm(ownAds []entity.Ad) *ProposalForm {
	return &ProposalForm{choices: ownAds}
}

func (f *ProposalForm) Choices() []Choice {
	out := make([]Choice, 0, len(f.choices))
	for _, ad := range f.choices {
		out = append(out, Choice{ID: ad.ID, Label: ad.String()})
	}
	return out
}

func (f *ProposalForm) Validate() FieldErrors {
	errs := FieldErrors{}
	f.sender = nil
	f.AdSender = strings.TrimSpace(f.AdSender)
	f.Comment = strings.TrimSpace(f.Comment)

	if f.AdSender == "" {
		errs.Add("ad_sender", MsgRequired)
		return errs
	}
	id, err := uuid.Parse(f.AdSender)
	if err != nil {
		errs.Add("ad_sender", MsgInvalidChoice)
		return errs
	}
	for i := range f.choices {
		if f.choices[i].ID == id {
			f.sender = &f.choices[i]
			return errs
		}
	}
	errs.Add("ad_sender", MsgInvalidChoice)
	return errs
}

// SenderAd is the resolved ad_sender; nil until Validate succeeds.
func (f *ProposalForm) SenderAd() *entity.Ad {
	return f.sender
}

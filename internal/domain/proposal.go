package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is one of the proposal statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

type ExchangeProposal struct {
	ID           uuid.UUID `db:"id" json:"id"`
	AdSenderID   uuid.UUID `db:"ad_sender_id" json:"adSenderId"`
	AdReceiverID uuid.UUID `db:"ad_receiver_id" json:"adReceiverId"`
	Comment      string    `db:"comment" json:"comment"`
	Status       string    `db:"status" json:"status"` // pending, accepted, rejected
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`

	// Filled by joins when the proposal is read back.
	SenderUserID   uuid.UUID `json:"senderUserId"`
	SenderUsername string    `json:"senderUsername"`
	SenderTitle    string    `json:"senderTitle"`
	ReceiverUserID uuid.UUID `json:"receiverUserId"`
	ReceiverTitle  string    `json:"receiverTitle"`
}

// NewExchangeProposal builds a pending proposal from sender to receiver.
func NewExchangeProposal(sender, receiver *Ad, comment string, now time.Time) *ExchangeProposal {
	return &ExchangeProposal{
		ID:             uuid.New(),
		AdSenderID:     sender.ID,
		AdReceiverID:   receiver.ID,
		Comment:        comment,
		Status:         StatusPending,
		CreatedAt:      now,
		SenderUserID:   sender.UserID,
		SenderUsername: sender.OwnerUsername,
		SenderTitle:    sender.Title,
		ReceiverUserID: receiver.UserID,
		ReceiverTitle:  receiver.Title,
	}
}

func (p ExchangeProposal) String() string {
	return fmt.Sprintf("от %s для %s", p.SenderUsername, p.ReceiverTitle)
}

const (
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

type ProposalFilter struct {
	Status    string `form:"status" json:"status"`
	Direction string `form:"direction" json:"direction"`
}

// ProposalView is a proposal as seen by one of its two parties.
type ProposalView struct {
	ExchangeProposal
	Display   string `json:"display"`
	Direction string `json:"direction"`
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	entity "barter-market/internal/domain"
	"barter-market/internal/form"
	mongorepo "barter-market/internal/repository/mongodb"
	repo "barter-market/internal/repository/postgresql"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSelfExchange        = errors.New("you cannot propose an exchange for your own ad")
	ErrNoAdsToOffer        = errors.New("you have no ads to offer; create one first")
	ErrProposalNotFound    = errors.New("exchange proposal not found")
	ErrNotProposalReceiver = errors.New("forbidden: only the owner of the requested ad can decide")
	ErrProposalNotPending  = errors.New("exchange proposal has already been decided")
	ErrInvalidStatus       = errors.New("status must be accepted or rejected")
)

const (
	notifyProposal       = "proposal"
	notifyProposalStatus = "proposal_status"
)

type ProposalService struct {
	proposalRepo repo.ProposalRepository
	adRepo       repo.AdRepository
	logRepo      mongorepo.LogRepository // optional
	logger       *zap.Logger
	now          func() time.Time
}

func NewProposalService(proposalRepo repo.ProposalRepository, adRepo repo.AdRepository, logRepo mongorepo.LogRepository, logger *zap.Logger) *ProposalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProposalService{
		proposalRepo: proposalRepo,
		adRepo:       adRepo,
		logRepo:      logRepo,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// PrepareProposal checks that userID may propose an exchange for the
// receiver ad and returns the receiver with a form scoped to userID's ads.
func (s *ProposalService) PrepareProposal(ctx context.Context, userID, receiverID uuid.UUID) (*entity.Ad, *form.ProposalForm, error) {
	receiver, err := s.adRepo.GetAdByID(ctx, receiverID)
	if err != nil {
		return nil, nil, err
	}
	if receiver == nil {
		return nil, nil, ErrAdNotFound
	}
	if receiver.UserID == userID {
		return nil, nil, ErrSelfExchange
	}

	own, err := s.adRepo.ListAdsByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(own) == 0 {
		return nil, nil, ErrNoAdsToOffer
	}
	return receiver, form.NewProposalForm(own), nil
}

// ProposeExchange persists a pending proposal from a validated form. The
// form must come from PrepareProposal for the same receiver.
func (s *ProposalService) ProposeExchange(ctx context.Context, receiver *entity.Ad, f *form.ProposalForm) (*entity.ExchangeProposal, error) {
	sender := f.SenderAd()
	if sender == nil {
		return nil, errors.New("proposal form has not been validated")
	}

	p := entity.NewExchangeProposal(sender, receiver, f.Comment, s.now())
	if err := s.proposalRepo.CreateProposal(ctx, p); err != nil {
		return nil, err
	}

	s.notify(ctx, receiver.UserID, "Новое предложение обмена",
		fmt.Sprintf("%s предлагает «%s» в обмен на «%s».", sender.OwnerUsername, sender.Title, receiver.Title),
		notifyProposal, p.ID)
	return p, nil
}

// ListProposals returns the proposals userID takes part in, each tagged with
// the side userID is on.
func (s *ProposalService) ListProposals(ctx context.Context, userID uuid.UUID, filter entity.ProposalFilter) ([]entity.ProposalView, error) {
	proposals, err := s.proposalRepo.ListProposalsForUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	views := make([]entity.ProposalView, 0, len(proposals))
	for _, p := range proposals {
		dir := entity.DirectionReceived
		if p.SenderUserID == userID {
			dir = entity.DirectionSent
		}
		views = append(views, entity.ProposalView{ExchangeProposal: p, Display: p.String(), Direction: dir})
	}
	return views, nil
}

// UpdateStatus accepts or rejects a pending proposal on behalf of the owner
// of the requested ad.
func (s *ProposalService) UpdateStatus(ctx context.Context, userID, proposalID uuid.UUID, status string) (*entity.ExchangeProposal, error) {
	if status != entity.StatusAccepted && status != entity.StatusRejected {
		return nil, ErrInvalidStatus
	}

	p, err := s.proposalRepo.GetProposalByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProposalNotFound
	}
	if p.ReceiverUserID != userID {
		return nil, ErrNotProposalReceiver
	}
	if p.Status != entity.StatusPending {
		return nil, ErrProposalNotPending
	}

	if err := s.proposalRepo.UpdateProposalStatus(ctx, p.ID, status); err != nil {
		return nil, err
	}
	old := p.Status
	p.Status = status

	s.saveHistory(ctx, &entity.HistoryStatus{
		RelatedID:   p.ID.String(),
		RelatedType: "exchange_proposal",
		OldStatus:   old,
		NewStatus:   status,
		ChangedBy:   userID.String(),
		Timestamp:   s.now(),
	})
	s.notify(ctx, p.SenderUserID, "Ответ на предложение обмена",
		fmt.Sprintf("Ваше предложение %s: %s.", p.String(), status),
		notifyProposalStatus, p.ID)
	return p, nil
}

func (s *ProposalService) saveHistory(ctx context.Context, doc *entity.HistoryStatus) {
	if s.logRepo == nil {
		return
	}
	if err := s.logRepo.SaveHistoryStatus(ctx, doc); err != nil {
		s.logger.Warn("failed to save status history", zap.String("proposal_id", doc.RelatedID), zap.Error(err))
	}
}

func (s *ProposalService) notify(ctx context.Context, userID uuid.UUID, title, message, kind string, relatedID uuid.UUID) {
	if s.logRepo == nil {
		return
	}
	noti := &entity.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		RelatedID: relatedID,
		CreatedAt: s.now(),
	}
	if err := s.logRepo.SaveNotification(ctx, noti); err != nil {
		s.logger.Warn("failed to save notification", zap.Stringer("user_id", userID), zap.Error(err))
	}
}

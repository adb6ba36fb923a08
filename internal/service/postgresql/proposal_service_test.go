package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	entity "barter-market/internal/domain"
	"barter-market/internal/form"
	repo "barter-market/internal/repository/postgresql"
	"barter-market/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type proposalFixture struct {
	db        *sql.DB
	svc       *ProposalService
	proposals repo.ProposalRepository
	logs      *fakeLogRepo
	alice     *entity.User
	bob       *entity.User
	x         *entity.Ad // alice's
	y         *entity.Ad // bob's
}

func newProposalFixture(t *testing.T) *proposalFixture {
	db := testutil.NewSQLiteDB(t)
	f := &proposalFixture{
		db:        db,
		proposals: repo.NewProposalRepository(db, repo.SQLite),
		logs:      &fakeLogRepo{},
	}
	f.svc = NewProposalService(f.proposals, repo.NewAdRepository(db, repo.SQLite), f.logs, zap.NewNop())
	f.alice = testutil.CreateUser(t, db, "alice")
	f.bob = testutil.CreateUser(t, db, "bob")
	f.x = testutil.CreateAd(t, db, f.alice, "Велосипед", time.Time{})
	f.y = testutil.CreateAd(t, db, f.bob, "Гитара", time.Time{})
	return f
}

// propose runs the whole flow for actor offering sender against receiver.
func (f *proposalFixture) propose(t *testing.T, actor *entity.User, sender, receiver *entity.Ad, comment string) *entity.ExchangeProposal {
	t.Helper()
	ctx := context.Background()
	recv, pf, err := f.svc.PrepareProposal(ctx, actor.ID, receiver.ID)
	require.NoError(t, err)
	pf.AdSender = sender.ID.String()
	pf.Comment = comment
	require.True(t, pf.Validate().Empty())
	p, err := f.svc.ProposeExchange(ctx, recv, pf)
	require.NoError(t, err)
	return p
}

func TestProposalService_ProposeWithoutComment(t *testing.T) {
	f := newProposalFixture(t)

	p := f.propose(t, f.bob, f.y, f.x, "")
	assert.Equal(t, entity.StatusPending, p.Status)
	assert.Equal(t, f.y.ID, p.AdSenderID)
	assert.Equal(t, f.x.ID, p.AdReceiverID)
	assert.Equal(t, "от bob для Велосипед", p.String())

	stored, err := f.proposals.GetProposalByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Empty(t, stored.Comment)

	require.Len(t, f.logs.notifications, 1)
	assert.Equal(t, f.alice.ID, f.logs.notifications[0].UserID)
	assert.Equal(t, p.ID, f.logs.notifications[0].RelatedID)
	assert.Equal(t, "proposal", f.logs.notifications[0].Type)
}

func TestProposalService_PrepareRejections(t *testing.T) {
	f := newProposalFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.PrepareProposal(ctx, f.alice.ID, f.x.ID)
	assert.ErrorIs(t, err, ErrSelfExchange)

	_, _, err = f.svc.PrepareProposal(ctx, f.alice.ID, uuid.New())
	assert.ErrorIs(t, err, ErrAdNotFound)

	carol := testutil.CreateUser(t, f.db, "carol")
	_, _, err = f.svc.PrepareProposal(ctx, carol.ID, f.x.ID)
	assert.ErrorIs(t, err, ErrNoAdsToOffer)

	list, err := f.svc.ListProposals(ctx, f.alice.ID, entity.ProposalFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProposalService_FormOnlyOffersOwnAds(t *testing.T) {
	f := newProposalFixture(t)
	second := testutil.CreateAd(t, f.db, f.bob, "Барабан", time.Time{})

	_, pf, err := f.svc.PrepareProposal(context.Background(), f.bob.ID, f.x.ID)
	require.NoError(t, err)

	var ids []uuid.UUID
	for _, c := range pf.Choices() {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{f.y.ID, second.ID}, ids)

	pf.AdSender = f.x.ID.String()
	errs := pf.Validate()
	assert.Equal(t, []string{form.MsgInvalidChoice}, errs["ad_sender"])

	_, err = f.svc.ProposeExchange(context.Background(), f.x, pf)
	assert.Error(t, err)
}

func TestProposalService_UpdateStatus(t *testing.T) {
	f := newProposalFixture(t)
	ctx := context.Background()
	p := f.propose(t, f.bob, f.y, f.x, "Меняю?")

	_, err := f.svc.UpdateStatus(ctx, f.alice.ID, p.ID, "maybe")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.svc.UpdateStatus(ctx, f.alice.ID, p.ID, entity.StatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = f.svc.UpdateStatus(ctx, f.alice.ID, uuid.New(), entity.StatusAccepted)
	assert.ErrorIs(t, err, ErrProposalNotFound)
	_, err = f.svc.UpdateStatus(ctx, f.bob.ID, p.ID, entity.StatusAccepted)
	assert.ErrorIs(t, err, ErrNotProposalReceiver)

	updated, err := f.svc.UpdateStatus(ctx, f.alice.ID, p.ID, entity.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, updated.Status)

	stored, err := f.proposals.GetProposalByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAccepted, stored.Status)

	require.Len(t, f.logs.history, 1)
	h := f.logs.history[0]
	assert.Equal(t, p.ID.String(), h.RelatedID)
	assert.Equal(t, entity.StatusPending, h.OldStatus)
	assert.Equal(t, entity.StatusAccepted, h.NewStatus)
	assert.Equal(t, f.alice.ID.String(), h.ChangedBy)

	require.Len(t, f.logs.notifications, 2)
	assert.Equal(t, f.bob.ID, f.logs.notifications[1].UserID)
	assert.Equal(t, "proposal_status", f.logs.notifications[1].Type)

	_, err = f.svc.UpdateStatus(ctx, f.alice.ID, p.ID, entity.StatusRejected)
	assert.ErrorIs(t, err, ErrProposalNotPending)
}

func TestProposalService_LogFailuresAreNotFatal(t *testing.T) {
	f := newProposalFixture(t)
	core, logs := observer.New(zapcore.WarnLevel)
	f.svc.logger = zap.New(core)
	f.logs.fail = true

	p := f.propose(t, f.bob, f.y, f.x, "")
	_, err := f.svc.UpdateStatus(context.Background(), f.alice.ID, p.ID, entity.StatusRejected)
	require.NoError(t, err)

	assert.Equal(t, 2, logs.FilterMessage("failed to save notification").Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to save status history").Len())
}

func TestProposalService_WithoutLogRepository(t *testing.T) {
	f := newProposalFixture(t)
	f.svc = NewProposalService(f.proposals, repo.NewAdRepository(f.db, repo.SQLite), nil, nil)

	p := f.propose(t, f.bob, f.y, f.x, "")
	_, err := f.svc.UpdateStatus(context.Background(), f.alice.ID, p.ID, entity.StatusAccepted)
	require.NoError(t, err)
}

func TestProposalService_ListProposals(t *testing.T) {
	f := newProposalFixture(t)
	ctx := context.Background()
	carol := testutil.CreateUser(t, f.db, "carol")
	z := testutil.CreateAd(t, f.db, carol, "Чайник", time.Time{})

	received := f.propose(t, f.bob, f.y, f.x, "")
	sent := f.propose(t, f.alice, f.x, z, "")

	views, err := f.svc.ListProposals(ctx, f.alice.ID, entity.ProposalFilter{})
	require.NoError(t, err)
	require.Len(t, views, 2)

	byID := map[uuid.UUID]entity.ProposalView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	assert.Equal(t, entity.DirectionReceived, byID[received.ID].Direction)
	assert.Equal(t, "от bob для Велосипед", byID[received.ID].Display)
	assert.Equal(t, entity.DirectionSent, byID[sent.ID].Direction)
	assert.Equal(t, "от alice для Чайник", byID[sent.ID].Display)

	onlySent, err := f.svc.ListProposals(ctx, f.alice.ID, entity.ProposalFilter{Direction: entity.DirectionSent})
	require.NoError(t, err)
	require.Len(t, onlySent, 1)
	assert.Equal(t, sent.ID, onlySent[0].ID)
}

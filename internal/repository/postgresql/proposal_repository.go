package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entity "barter-market/internal/domain"

	"github.com/google/uuid"
)

type ProposalRepository interface {
	CreateProposal(ctx context.Context, p *entity.ExchangeProposal) error
	GetProposalByID(ctx context.Context, id uuid.UUID) (*entity.ExchangeProposal, error)
	ListProposalsForUser(ctx context.Context, userID uuid.UUID, filter entity.ProposalFilter) ([]entity.ExchangeProposal, error)
	UpdateProposalStatus(ctx context.Context, id uuid.UUID, status string) error
}

type proposalRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewProposalRepository(db *sql.DB, dialect Dialect) ProposalRepository {
	return &proposalRepository{db: db, dialect: dialect}
}

const proposalColumns = `
	p.id, p.ad_sender_id, p.ad_receiver_id, p.comment, p.status, p.created_at,
	sa.user_id, su.username, sa.title, ra.user_id, ra.title
	FROM exchange_proposals p
	JOIN ads sa ON sa.id = p.ad_sender_id
	JOIN users su ON su.id = sa.user_id
	JOIN ads ra ON ra.id = p.ad_receiver_id`

func scanProposal(row rowScanner) (*entity.ExchangeProposal, error) {
	var p entity.ExchangeProposal
	err := row.Scan(
		&p.ID, &p.AdSenderID, &p.AdReceiverID, &p.Comment, &p.Status, &p.CreatedAt,
		&p.SenderUserID, &p.SenderUsername, &p.SenderTitle, &p.ReceiverUserID, &p.ReceiverTitle,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proposalRepository) CreateProposal(ctx context.Context, p *entity.ExchangeProposal) error {
	query := `
		INSERT INTO exchange_proposals (id, ad_sender_id, ad_receiver_id, comment, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		p.ID, p.AdSenderID, p.AdReceiverID, p.Comment, p.Status, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

// GetProposalByID returns nil, nil when the proposal does not exist.
func (r *proposalRepository) GetProposalByID(ctx context.Context, id uuid.UUID) (*entity.ExchangeProposal, error) {
	query := `SELECT` + proposalColumns + ` WHERE p.id = $1`
	p, err := scanProposal(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get proposal %s: %w", id, err)
	}
	return p, nil
}

// ListProposalsForUser returns proposals in which userID owns the sender or
// the receiver ad, newest first.
func (r *proposalRepository) ListProposalsForUser(ctx context.Context, userID uuid.UUID, filter entity.ProposalFilter) ([]entity.ExchangeProposal, error) {
	var where string
	args := []any{userID}
	switch filter.Direction {
	case entity.DirectionSent:
		where = ` WHERE sa.user_id = $1`
	case entity.DirectionReceived:
		where = ` WHERE ra.user_id = $1`
	default:
		where = ` WHERE (sa.user_id = $1 OR ra.user_id = $2)`
		args = append(args, userID)
	}
	if entity.ValidStatus(filter.Status) {
		where += fmt.Sprintf(` AND p.status = $%d`, len(args)+1)
		args = append(args, filter.Status)
	}

	query := `SELECT` + proposalColumns + where + ` ORDER BY p.created_at DESC, p.id DESC`
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	proposals := []entity.ExchangeProposal{}
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan proposal: %w", err)
		}
		proposals = append(proposals, *p)
	}
	return proposals, rows.Err()
}

func (r *proposalRepository) UpdateProposalStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE exchange_proposals SET status = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query), status, id)
	if err != nil {
		return fmt.Errorf("update proposal %s: %w", id, err)
	}
	return nil
}

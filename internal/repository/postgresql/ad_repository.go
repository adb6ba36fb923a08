package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	entity "barter-market/internal/domain"

	"github.com/google/uuid"
)

type AdRepository interface {
	CreateAd(ctx context.Context, ad *entity.Ad) error
	GetAdByID(ctx context.Context, id uuid.UUID) (*entity.Ad, error)
	UpdateAd(ctx context.Context, ad *entity.Ad) error
	DeleteAd(ctx context.Context, id uuid.UUID) error
	CountAds(ctx context.Context, filter entity.AdFilter) (int, error)
	ListAds(ctx context.Context, filter entity.AdFilter, limit, offset int) ([]entity.Ad, error)
	ListAdsByUser(ctx context.Context, userID uuid.UUID) ([]entity.Ad, error)
}

type adRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewAdRepository(db *sql.DB, dialect Dialect) AdRepository {
	return &adRepository{db: db, dialect: dialect}
}

const adColumns = `
	a.id, a.user_id, u.username, a.title, a.description, a.image_url,
	a.category, a.item_condition, a.created_at
	FROM ads a
	JOIN users u ON u.id = a.user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAd(row rowScanner) (*entity.Ad, error) {
	var ad entity.Ad
	var imageURL sql.NullString
	err := row.Scan(
		&ad.ID, &ad.UserID, &ad.OwnerUsername, &ad.Title, &ad.Description, &imageURL,
		&ad.Category, &ad.Condition, &ad.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	ad.ImageURL = stringPtr(imageURL)
	return &ad, nil
}

func (r *adRepository) CreateAd(ctx context.Context, ad *entity.Ad) error {
	query := `
		INSERT INTO ads (id, user_id, title, description, image_url, category, item_condition, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		ad.ID, ad.UserID, ad.Title, ad.Description, nullString(ad.ImageURL),
		ad.Category, ad.Condition, ad.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ad: %w", err)
	}
	return nil
}

// GetAdByID returns nil, nil when no ad has that id.
func (r *adRepository) GetAdByID(ctx context.Context, id uuid.UUID) (*entity.Ad, error) {
	query := `SELECT` + adColumns + ` WHERE a.id = $1`
	ad, err := scanAd(r.db.QueryRowContext(ctx, r.dialect.Rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ad %s: %w", id, err)
	}
	return ad, nil
}

func (r *adRepository) UpdateAd(ctx context.Context, ad *entity.Ad) error {
	query := `
		UPDATE ads
		SET title=$1, description=$2, image_url=$3, category=$4, item_condition=$5
		WHERE id=$6
	`
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(query),
		ad.Title, ad.Description, nullString(ad.ImageURL), ad.Category, ad.Condition, ad.ID,
	)
	if err != nil {
		return fmt.Errorf("update ad %s: %w", ad.ID, err)
	}
	return nil
}

// DeleteAd removes the ad; proposals referencing it go with it (ON DELETE CASCADE).
func (r *adRepository) DeleteAd(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM ads WHERE id = $1`), id)
	if err != nil {
		return fmt.Errorf("delete ad %s: %w", id, err)
	}
	return nil
}

// adWhere builds the filter clause. Empty filters are ignored; every filter
// is a case-insensitive substring match.
func (r *adRepository) adWhere(filter entity.AdFilter) (string, []any) {
	var conds []string
	var args []any
	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }
	esc := r.dialect.likeEscape()

	if q := strings.TrimSpace(filter.Query); q != "" {
		p := containsPattern(q)
		c1 := next()
		args = append(args, p)
		c2 := next()
		args = append(args, p)
		conds = append(conds, fmt.Sprintf("(LOWER(a.title) LIKE %s %s OR LOWER(a.description) LIKE %s %s)", c1, esc, c2, esc))
	}
	if v := strings.TrimSpace(filter.Category); v != "" {
		c := next()
		args = append(args, containsPattern(v))
		conds = append(conds, fmt.Sprintf("LOWER(a.category) LIKE %s %s", c, esc))
	}
	if v := strings.TrimSpace(filter.Condition); v != "" {
		c := next()
		args = append(args, containsPattern(v))
		conds = append(conds, fmt.Sprintf("LOWER(a.item_condition) LIKE %s %s", c, esc))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *adRepository) CountAds(ctx context.Context, filter entity.AdFilter) (int, error) {
	where, args := r.adWhere(filter)
	query := `SELECT COUNT(*) FROM ads a` + where
	var n int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ads: %w", err)
	}
	return n, nil
}

// ListAds returns one page of filtered ads, newest first.
func (r *adRepository) ListAds(ctx context.Context, filter entity.AdFilter, limit, offset int) ([]entity.Ad, error) {
	where, args := r.adWhere(filter)
	query := fmt.Sprintf(`SELECT%s%s ORDER BY a.created_at DESC, a.id DESC LIMIT $%d OFFSET $%d`,
		adColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.queryAds(ctx, query, args...)
}

func (r *adRepository) ListAdsByUser(ctx context.Context, userID uuid.UUID) ([]entity.Ad, error) {
	query := `SELECT` + adColumns + ` WHERE a.user_id = $1 ORDER BY a.created_at DESC, a.id DESC`
	return r.queryAds(ctx, query, userID)
}

func (r *adRepository) queryAds(ctx context.Context, query string, args ...any) ([]entity.Ad, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list ads: %w", err)
	}
	defer rows.Close()

	ads := []entity.Ad{}
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad: %w", err)
		}
		ads = append(ads, *ad)
	}
	return ads, rows.Err()
}

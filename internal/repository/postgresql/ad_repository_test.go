package repository_test

import (
	"context"
	"testing"
	"time"

	entity "barter-market/internal/domain"
	repo "barter-market/internal/repository/postgresql"
	"barter-market/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(ads []entity.Ad) []string {
	out := make([]string, 0, len(ads))
	for _, ad := range ads {
		out = append(out, ad.Title)
	}
	return out
}

func TestAdRepository_CreateAndGet(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	ads := repo.NewAdRepository(db, repo.SQLite)

	owner := testutil.CreateUser(t, db, "alice")
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ad := &entity.Ad{
		ID:          uuid.New(),
		UserID:      owner.ID,
		Title:       "Велосипед",
		Description: "Горный, 21 скорость",
		Category:    "Спорт",
		Condition:   "Б/У",
		CreatedAt:   now,
	}
	require.NoError(t, ads.CreateAd(ctx, ad))

	got, err := ads.GetAdByID(ctx, ad.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ad.Title, got.Title)
	assert.Equal(t, "alice", got.OwnerUsername)
	assert.Equal(t, owner.ID, got.UserID)
	assert.Nil(t, got.ImageURL)
	assert.WithinDuration(t, now, got.CreatedAt, time.Second)

	missing, err := ads.GetAdByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAdRepository_UpdateKeepsOwnerAndCreatedAt(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	ads := repo.NewAdRepository(db, repo.SQLite)

	owner := testutil.CreateUser(t, db, "alice")
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ad := testutil.CreateAd(t, db, owner, "Старое", created)

	img := "https://example.com/bike.png"
	ad.Title = "Новое"
	ad.ImageURL = &img
	require.NoError(t, ads.UpdateAd(ctx, ad))

	got, err := ads.GetAdByID(ctx, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, "Новое", got.Title)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, img, *got.ImageURL)
	assert.Equal(t, owner.ID, got.UserID)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)
}

func TestAdRepository_ListNewestFirstWithPaging(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	ads := repo.NewAdRepository(db, repo.SQLite)

	owner := testutil.CreateUser(t, db, "alice")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"a1", "a2", "a3", "a4", "a5", "a6", "a7"} {
		testutil.CreateAd(t, db, owner, title, base.Add(time.Duration(i)*time.Minute))
	}

	n, err := ads.CountAds(ctx, entity.AdFilter{})
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	first, err := ads.ListAds(ctx, entity.AdFilter{}, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a7", "a6", "a5", "a4", "a3"}, titles(first))

	second, err := ads.ListAds(ctx, entity.AdFilter{}, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1"}, titles(second))
}

func TestAdRepository_Filters(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	ads := repo.NewAdRepository(db, repo.SQLite)

	owner := testutil.CreateUser(t, db, "alice")
	insert := func(title, desc, category, condition string, at time.Time) {
		require.NoError(t, ads.CreateAd(ctx, &entity.Ad{
			ID: uuid.New(), UserID: owner.ID, Title: title, Description: desc,
			Category: category, Condition: condition, CreatedAt: at,
		}))
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	insert("Red Bike", "fast", "Sport", "used", base)
	insert("Lamp", "a bike lamp", "Home", "new", base.Add(time.Minute))
	insert("Chair", "wooden", "Home", "used", base.Add(2*time.Minute))
	insert("100% cotton shirt", "size M", "Clothes", "new", base.Add(3*time.Minute))
	insert("Shirt_XL", "size XL", "Clothes", "new", base.Add(4*time.Minute))

	tests := []struct {
		name   string
		filter entity.AdFilter
		want   []string
	}{
		{"no filter", entity.AdFilter{}, []string{"Shirt_XL", "100% cotton shirt", "Chair", "Lamp", "Red Bike"}},
		{"query matches title or description", entity.AdFilter{Query: "BIKE"}, []string{"Lamp", "Red Bike"}},
		{"category substring", entity.AdFilter{Category: "hom"}, []string{"Chair", "Lamp"}},
		{"condition", entity.AdFilter{Condition: "USED"}, []string{"Chair", "Red Bike"}},
		{"combined filters", entity.AdFilter{Query: "lamp", Category: "home", Condition: "new"}, []string{"Lamp"}},
		{"percent is literal", entity.AdFilter{Query: "100%"}, []string{"100% cotton shirt"}},
		{"underscore is literal", entity.AdFilter{Query: "t_x"}, []string{"Shirt_XL"}},
		{"blank filter ignored", entity.AdFilter{Query: "   "}, []string{"Shirt_XL", "100% cotton shirt", "Chair", "Lamp", "Red Bike"}},
		{"no match", entity.AdFilter{Query: "piano"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ads.ListAds(ctx, tt.filter, 10, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))

			n, err := ads.CountAds(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
		})
	}
}

func TestAdRepository_ListAdsByUser(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	ads := repo.NewAdRepository(db, repo.SQLite)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testutil.CreateAd(t, db, alice, "A1", base)
	testutil.CreateAd(t, db, bob, "B1", base.Add(time.Minute))
	testutil.CreateAd(t, db, alice, "A2", base.Add(2*time.Minute))

	got, err := ads.ListAdsByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A2", "A1"}, titles(got))

	none, err := ads.ListAdsByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAdRepository_DeleteCascadesToProposals(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ctx := context.Background()
	ads := repo.NewAdRepository(db, repo.SQLite)
	proposals := repo.NewProposalRepository(db, repo.SQLite)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	mine := testutil.CreateAd(t, db, alice, "Книга", time.Time{})
	theirs := testutil.CreateAd(t, db, bob, "Лампа", time.Time{})

	p := entity.NewExchangeProposal(mine, theirs, "", time.Now().UTC())
	require.NoError(t, proposals.CreateProposal(ctx, p))

	require.NoError(t, ads.DeleteAd(ctx, theirs.ID))

	gone, err := ads.GetAdByID(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	got, err := proposals.GetProposalByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	entity "barter-market/internal/domain"
	"barter-market/internal/form"
	repo "barter-market/internal/repository/postgresql"

	"github.com/google/uuid"
)

// PageSize is the number of ads on one page of the list view.
const PageSize = 5

var (
	ErrAdNotFound = errors.New("ad not found")
	ErrNotAdOwner = errors.New("forbidden: you are not the owner of this ad")
)

type AdService struct {
	adRepo repo.AdRepository
	now    func() time.Time
}

func NewAdService(adRepo repo.AdRepository) *AdService {
	return &AdService{
		adRepo: adRepo,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// pageNumber resolves the requested page the forgiving way: anything that is
// not an integer means the first page, anything out of range the last one.
func pageNumber(raw string, numPages int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	if n < 1 || n > numPages {
		return numPages
	}
	return n
}

// ListAds returns one page of ads matching filter, newest first.
func (s *AdService) ListAds(ctx context.Context, filter entity.AdFilter) (*entity.AdPage, error) {
	total, err := s.adRepo.CountAds(ctx, filter)
	if err != nil {
		return nil, err
	}

	numPages := (total + PageSize - 1) / PageSize
	if numPages == 0 {
		numPages = 1
	}
	number := pageNumber(filter.Page, numPages)

	ads, err := s.adRepo.ListAds(ctx, filter, PageSize, (number-1)*PageSize)
	if err != nil {
		return nil, err
	}

	page := &entity.AdPage{
		Ads:         ads,
		Number:      number,
		NumPages:    numPages,
		Total:       total,
		HasPrevious: number > 1,
		HasNext:     number < numPages,
	}
	if page.HasPrevious {
		page.Previous = number - 1
	}
	if page.HasNext {
		page.Next = number + 1
	}
	return page, nil
}

// CreateAd stores a validated form as a new ad owned by userID.
func (s *AdService) CreateAd(ctx context.Context, userID uuid.UUID, f *form.AdForm) (*entity.Ad, error) {
	ad := &entity.Ad{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: s.now(),
	}
	f.Apply(ad)

	if err := s.adRepo.CreateAd(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// GetOwnedAd loads an ad for modification by userID. It fails with
// ErrAdNotFound or ErrNotAdOwner.
func (s *AdService) GetOwnedAd(ctx context.Context, userID, adID uuid.UUID) (*entity.Ad, error) {
	ad, err := s.adRepo.GetAdByID(ctx, adID)
	if err != nil {
		return nil, err
	}
	if ad == nil {
		return nil, ErrAdNotFound
	}
	if ad.UserID != userID {
		return nil, ErrNotAdOwner
	}
	return ad, nil
}

// UpdateAd overwrites the editable fields. Owner and creation time stay.
func (s *AdService) UpdateAd(ctx context.Context, userID, adID uuid.UUID, f *form.AdForm) (*entity.Ad, error) {
	ad, err := s.GetOwnedAd(ctx, userID, adID)
	if err != nil {
		return nil, err
	}
	f.Apply(ad)

	if err := s.adRepo.UpdateAd(ctx, ad); err != nil {
		return nil, err
	}
	return ad, nil
}

func (s *AdService) DeleteAd(ctx context.Context, userID, adID uuid.UUID) error {
	if _, err := s.GetOwnedAd(ctx, userID, adID); err != nil {
		return err
	}
	return s.adRepo.DeleteAd(ctx, adID)
}

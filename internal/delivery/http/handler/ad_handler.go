package handler

import (
	"errors"
	"fmt"
	"net/http"

	entity "barter-market/internal/domain"
	"barter-market/internal/form"
	service "barter-market/internal/service/postgresql"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdHandler struct {
	adService *service.AdService
}

func NewAdHandler(adService *service.AdService) *AdHandler {
	return &AdHandler{adService: adService}
}

func adError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAdNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotAdOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		internalError(c, err)
	}
}

// List serves GET / with optional q, category, condition and page.
func (h *AdHandler) List(c *gin.Context) {
	var filter entity.AdFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.adService.ListAds(c.Request.Context(), filter)
	if err != nil {
		internalError(c, err)
		return
	}

	// Pagination links reuse the current filters.
	query := c.Request.URL.Query()
	query.Del("page")

	c.JSON(http.StatusOK, gin.H{
		"ads":  page.Ads,
		"page": page,
		"filters": gin.H{
			"q":         filter.Query,
			"category":  filter.Category,
			"condition": filter.Condition,
		},
		"query_string": query.Encode(),
	})
}

func (h *AdHandler) CreateForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"form": form.NewView(form.AdForm{}, nil)})
}

func (h *AdHandler) Create(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var f form.AdForm
	if err := c.ShouldBind(&f); err != nil {
		badRequest(c, err)
		return
	}
	if errs := f.Validate(); !errs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "form": form.NewView(f, errs)})
		return
	}

	ad, err := h.adService.CreateAd(c.Request.Context(), userID, &f)
	if err != nil {
		internalError(c, err)
		return
	}
	c.Header("X-Ad-ID", ad.ID.String())
	redirect(c, "/", "message", "Ad created.")
}

func (h *AdHandler) EditForm(c *gin.Context) {
	adID, ok := pathID(c, "id", "ad")
	if !ok {
		return
	}
	userID := c.MustGet("user_id").(uuid.UUID)

	ad, err := h.adService.GetOwnedAd(c.Request.Context(), userID, adID)
	if err != nil {
		adError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ad": ad, "form": form.NewView(form.AdFormFromAd(ad), nil)})
}

func (h *AdHandler) Update(c *gin.Context) {
	adID, ok := pathID(c, "id", "ad")
	if !ok {
		return
	}
	userID := c.MustGet("user_id").(uuid.UUID)

	// Ownership is settled before the body is looked at.
	if _, err := h.adService.GetOwnedAd(c.Request.Context(), userID, adID); err != nil {
		adError(c, err)
		return
	}

	var f form.AdForm
	if err := c.ShouldBind(&f); err != nil {
		badRequest(c, err)
		return
	}
	if errs := f.Validate(); !errs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "form": form.NewView(f, errs)})
		return
	}

	if _, err := h.adService.UpdateAd(c.Request.Context(), userID, adID, &f); err != nil {
		adError(c, err)
		return
	}
	redirect(c, "/", "message", "Ad updated.")
}

func (h *AdHandler) DeleteConfirm(c *gin.Context) {
	adID, ok := pathID(c, "id", "ad")
	if !ok {
		return
	}
	userID := c.MustGet("user_id").(uuid.UUID)

	ad, err := h.adService.GetOwnedAd(c.Request.Context(), userID, adID)
	if err != nil {
		adError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ad":      ad,
		"message": fmt.Sprintf("Are you sure you want to delete %q?", ad.Title),
	})
}

func (h *AdHandler) Delete(c *gin.Context) {
	adID, ok := pathID(c, "id", "ad")
	if !ok {
		return
	}
	userID := c.MustGet("user_id").(uuid.UUID)

	if err := h.adService.DeleteAd(c.Request.Context(), userID, adID); err != nil {
		adError(c, err)
		return
	}
	redirect(c, "/", "message", "Ad deleted.")
}

package handler

import (
	"errors"
	"net/http"

	entity "barter-market/internal/domain"
	"barter-market/internal/form"
	service "barter-market/internal/service/postgresql"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProposalHandler struct {
	proposalService *service.ProposalService
}

func NewProposalHandler(proposalService *service.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

func proposalFormView(f *form.ProposalForm, errs form.FieldErrors) form.View {
	v := form.NewView(f, errs)
	v.Choices = f.Choices()
	return v
}

// prepare resolves the receiver ad and the actor's form, answering the
// request itself when the actor may not propose.
func (h *ProposalHandler) prepare(c *gin.Context) (*entity.Ad, *form.ProposalForm, bool) {
	receiverID, ok := pathID(c, "id", "ad")
	if !ok {
		return nil, nil, false
	}
	userID := c.MustGet("user_id").(uuid.UUID)

	receiver, f, err := h.proposalService.PrepareProposal(c.Request.Context(), userID, receiverID)
	switch {
	case err == nil:
		return receiver, f, true
	case errors.Is(err, service.ErrAdNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSelfExchange):
		redirect(c, "/", "error", err.Error())
	case errors.Is(err, service.ErrNoAdsToOffer):
		redirect(c, "/create/", "error", err.Error())
	default:
		internalError(c, err)
	}
	return nil, nil, false
}

func (h *ProposalHandler) ProposeForm(c *gin.Context) {
	receiver, f, ok := h.prepare(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"ad_receiver": receiver, "form": proposalFormView(f, nil)})
}

func (h *ProposalHandler) Propose(c *gin.Context) {
	receiver, f, ok := h.prepare(c)
	if !ok {
		return
	}

	if err := c.ShouldBind(f); err != nil {
		// A body that does not bind (e.g. a non-string ad_sender) cannot name
		// one of the offered ads.
		errs := form.FieldErrors{}
		errs.Add("ad_sender", form.MsgInvalidChoice)
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "validation failed",
			"ad_receiver": receiver,
			"form":        proposalFormView(f, errs),
		})
		return
	}
	if errs := f.Validate(); !errs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "validation failed",
			"ad_receiver": receiver,
			"form":        proposalFormView(f, errs),
		})
		return
	}

	p, err := h.proposalService.ProposeExchange(c.Request.Context(), receiver, f)
	if err != nil {
		internalError(c, err)
		return
	}
	c.Header("X-Proposal-ID", p.ID.String())
	redirect(c, "/", "message", "Exchange proposal sent.")
}

// List serves GET /proposals/ with optional status and direction filters.
func (h *ProposalHandler) List(c *gin.Context) {
	userID := c.MustGet("user_id").(uuid.UUID)

	var filter entity.ProposalFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err)
		return
	}

	proposals, err := h.proposalService.ListProposals(c.Request.Context(), userID, filter)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"proposals": proposals, "filters": filter})
}

func (h *ProposalHandler) UpdateStatus(c *gin.Context) {
	proposalID, ok := pathID(c, "id", "exchange proposal")
	if !ok {
		return
	}
	userID := c.MustGet("user_id").(uuid.UUID)

	p, err := h.proposalService.UpdateStatus(c.Request.Context(), userID, proposalID, c.Param("status"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrProposalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNotProposalReceiver):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrProposalNotPending):
			redirect(c, "/proposals/", "error", err.Error())
		default:
			internalError(c, err)
		}
		return
	}
	redirect(c, "/proposals/", "message", "Exchange proposal "+p.Status+".")
}

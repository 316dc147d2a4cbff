package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tavvy/atlas-backend/internal/common"
	"github.com/tavvy/atlas-backend/internal/domain"
	"github.com/tavvy/atlas-backend/internal/middleware"
	"github.com/tavvy/atlas-backend/internal/service"
)

// DraftHandler exposes the draft lifecycle to the wizard UI
type DraftHandler struct {
	drafts             service.DraftService
	defaultSnoozeHours int
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts service.DraftService, defaultSnoozeHours int) *DraftHandler {
	if defaultSnoozeHours <= 0 {
		defaultSnoozeHours = 24
	}
	return &DraftHandler{drafts: drafts, defaultSnoozeHours: defaultSnoozeHours}
}

// Create handles POST /api/v1/drafts
func (h *DraftHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var input domain.CreateDraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid location input", err)
		return
	}

	draft, err := h.drafts.Create(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			common.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to create draft", err)
		return
	}
	common.CreatedResponse(c, draft)
}

// Update handles PATCH /api/v1/drafts/active
// The optional immediate query flag bypasses the debounce timer.
func (h *DraftHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	immediate := c.Query("immediate") == "true"

	var patch domain.DraftPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid draft patch", err)
		return
	}

	draft, err := h.drafts.Update(c.Request.Context(), userID, patch, immediate)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			common.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated", err)
		case errors.Is(err, common.ErrNoActiveDraft):
			common.ErrorResponse(c, http.StatusConflict, "No active draft", err)
		case errors.Is(err, common.ErrDraftSubmitted):
			common.ErrorResponse(c, http.StatusConflict, "Draft already submitted", err)
		case errors.Is(err, common.ErrTooManyPhotos):
			common.ErrorResponse(c, http.StatusUnprocessableEntity, "Too many photos", err)
		case errors.Is(err, common.ErrStatusRegression):
			common.ErrorResponse(c, http.StatusUnprocessableEntity, "Draft status cannot move backwards", err)
		default:
			common.ErrorResponse(c, http.StatusBadRequest, "Invalid draft patch", err)
		}
		return
	}
	common.SuccessResponse(c, draft)
}

// Flush handles POST /api/v1/drafts/active/flush
// Called on wizard teardown so queued edits are never dropped silently.
func (h *DraftHandler) Flush(c *gin.Context) {
	h.drafts.Flush(middleware.GetUserID(c))
	common.SuccessResponse(c, gin.H{"flushed": true})
}

// Delete handles DELETE /api/v1/drafts/:id
func (h *DraftHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	draftID := c.Param("id")
	if draftID == "active" {
		draftID = ""
	}

	if err := h.drafts.Delete(c.Request.Context(), userID, draftID); err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			common.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated", err)
		case errors.Is(err, common.ErrNoActiveDraft):
			common.ErrorResponse(c, http.StatusConflict, "No active draft", err)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to delete draft", err)
		}
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}

// Snooze handles POST /api/v1/drafts/active/snooze
func (h *DraftHandler) Snooze(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req struct {
		Hours int `json:"hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid snooze request", err)
		return
	}
	if req.Hours <= 0 {
		req.Hours = h.defaultSnoozeHours
	}

	if err := h.drafts.Snooze(c.Request.Context(), userID, req.Hours); err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			common.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated", err)
		case errors.Is(err, common.ErrNoActiveDraft):
			common.ErrorResponse(c, http.StatusConflict, "No active draft", err)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to snooze draft", err)
		}
		return
	}
	common.SuccessResponse(c, gin.H{"snoozed_hours": req.Hours})
}

// Submit handles POST /api/v1/drafts/active/submit
func (h *DraftHandler) Submit(c *gin.Context) {
	userID := middleware.GetUserID(c)

	// validation failures are part of the contract, not transport errors,
	// so both outcomes ship as the structured SubmitResult
	result := h.drafts.Submit(c.Request.Context(), userID)
	c.JSON(http.StatusOK, result)
}

// Pending handles GET /api/v1/drafts/pending
func (h *DraftHandler) Pending(c *gin.Context) {
	userID := middleware.GetUserID(c)

	draft, err := h.drafts.CheckPending(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			common.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to check pending draft", err)
		return
	}
	common.SuccessResponse(c, draft)
}

// Resume handles POST /api/v1/drafts/pending/resume
func (h *DraftHandler) Resume(c *gin.Context) {
	userID := middleware.GetUserID(c)

	draft, err := h.drafts.Resume(userID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUnauthorized):
			common.ErrorResponse(c, http.StatusUnauthorized, "Not authenticated", err)
		case errors.Is(err, common.ErrDraftNotFound):
			common.ErrorResponse(c, http.StatusNotFound, "No pending draft", err)
		default:
			common.ErrorResponse(c, http.StatusInternalServerError, "Failed to resume draft", err)
		}
		return
	}
	common.SuccessResponse(c, draft)
}

// Dismiss handles POST /api/v1/drafts/pending/dismiss
func (h *DraftHandler) Dismiss(c *gin.Context) {
	h.drafts.DismissPending(middleware.GetUserID(c))
	common.SuccessResponse(c, gin.H{"dismissed": true})
}

// Session handles GET /api/v1/drafts/session
func (h *DraftHandler) Session(c *gin.Context) {
	common.SuccessResponse(c, h.drafts.Flags(middleware.GetUserID(c)))
}

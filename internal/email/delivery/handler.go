package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	authdomain "inboxmind-backend/internal/auth/domain"
	emaildto "inboxmind-backend/internal/email/dto"
	"inboxmind-backend/internal/email/usecase"
	"inboxmind-backend/pkg/timerange"

	"github.com/gin-gonic/gin"
)

// EmailHandler handles email API endpoints
type EmailHandler struct {
	emailUsecase usecase.EmailUsecase
}

// NewEmailHandler creates a new EmailHandler
func NewEmailHandler(emailUsecase usecase.EmailUsecase) *EmailHandler {
	return &EmailHandler{
		emailUsecase: emailUsecase,
	}
}

func currentUserID(c *gin.Context) (string, bool) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return "", false
	}
	userData, ok := user.(*authdomain.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user data"})
		return "", false
	}
	return userData.ID, true
}

// POST /api/emails
func (h *EmailHandler) CreateEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req emaildto.CreateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := h.emailUsecase.Create(c.Request.Context(), userID, req.Sender, req.Body)
	if err != nil {
		if errors.Is(err, usecase.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create email"})
		return
	}

	c.JSON(http.StatusCreated, emaildto.CreateEmailResponse{
		ID:        email.ID,
		Sender:    email.Sender,
		EmailType: email.EmailType,
		CreatedAt: email.CreatedAt.Format(time.RFC3339),
	})
}

// GET /api/emails
func (h *EmailHandler) ListEmails(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	emails, total, err := h.emailUsecase.List(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list emails"})
		return
	}

	c.JSON(http.StatusOK, emaildto.EmailsResponse{
		Emails: emails,
		Limit:  limit,
		Offset: offset,
		Total:  total,
	})
}

// PATCH /api/emails/:id/type
func (h *EmailHandler) OverrideType(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req emaildto.UpdateEmailTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email, err := h.emailUsecase.OverrideType(userID, c.Param("id"), req.EmailType)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidEmailType):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update email"})
		}
		return
	}

	c.JSON(http.StatusOK, email)
}

// DELETE /api/emails/:id
func (h *EmailHandler) DeleteEmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.emailUsecase.SoftDelete(userID, c.Param("id")); err != nil {
		if errors.Is(err, usecase.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete email"})
		return
	}

	c.Status(http.StatusNoContent)
}

// GET /api/emails/analytics
func (h *EmailHandler) Analytics(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	analytics, err := h.emailUsecase.Analytics(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute analytics"})
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GET /api/emails/digest?range=7d|15d|30d
func (h *EmailHandler) Digest(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	rangeKey := c.DefaultQuery("range", "7d")
	digest, err := h.emailUsecase.DigestByRange(c.Request.Context(), rangeKey)
	if err != nil {
		if errors.Is(err, timerange.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate digest"})
		return
	}
	c.JSON(http.StatusOK, digest)
}

// POST /api/emails/reclassify?limit=
func (h *EmailHandler) Reclassify(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	processed, err := h.emailUsecase.Reclassify(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reclassify batch failed", "processed": processed})
		return
	}
	c.JSON(http.StatusOK, emaildto.BatchResponse{Processed: processed})
}

// POST /api/emails/summarize?limit=
func (h *EmailHandler) Summarize(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	processed, err := h.emailUsecase.Summarize(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summarize batch failed", "processed": processed})
		return
	}
	c.JSON(http.StatusOK, emaildto.BatchResponse{Processed: processed})
}

// POST /api/emails/sync
func (h *EmailHandler) SyncGmail(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	result, err := h.emailUsecase.SyncGmail(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrNoGoogleAccount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gmail sync failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/emails/sync/imap
func (h *EmailHandler) SyncIMAP(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req emaildto.IMAPSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.emailUsecase.SyncIMAP(c.Request.Context(), userID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "imap sync failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

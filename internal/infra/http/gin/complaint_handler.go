package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"adboard/internal/app/dto"
	moderationsvc "adboard/internal/app/services/moderation"
	domaincomplaint "adboard/internal/domain/complaint"
)

type ComplaintHTTP interface {
	File(c *gin.Context)
	ListMine(c *gin.Context)
}

type ComplaintHandler struct {
	Service *moderationsvc.Service
	Logger  *slog.Logger
}

type fileComplaintRequest struct {
	Subject     string `json:"subject" binding:"required"`
	Description string `json:"description" binding:"required"`
}

func (h ComplaintHandler) File(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req fileComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	created, err := h.Service.FileComplaint(c.Request.Context(), domaincomplaint.ID(uuid.NewString()), p.ID, req.Subject, req.Description)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapComplaint(created))
}

func (h ComplaintHandler) ListMine(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	page, limit, offset := pageParams(c)
	complaints, total, err := h.Service.ComplaintsForAuthor(c.Request.Context(), p.ID, domaincomplaint.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapComplaintCollection(complaints, page, limit, total))
}

var _ ComplaintHTTP = ComplaintHandler{}

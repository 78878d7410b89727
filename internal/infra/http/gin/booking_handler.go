package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"adboard/internal/app/dto"
	reservationsvc "adboard/internal/app/services/reservation"
	domainbilling "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	domainuser "adboard/internal/domain/user"
)

type BookingHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	UpdateStatus(c *gin.Context)
	Cancel(c *gin.Context)
	OpenDispute(c *gin.Context)
	ListMine(c *gin.Context)
	ListForOwner(c *gin.Context)
}

type BookingHandler struct {
	Service *reservationsvc.Service
	Logger  *slog.Logger
}

type createBookingRequest struct {
	BillboardID string    `json:"billboard_id" binding:"required"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	Message     string    `json:"message"`
}

func (h BookingHandler) Create(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleAdvertiser)
	if !ok {
		return
	}
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	view, err := h.Service.Create(c.Request.Context(), reservationsvc.CreateParams{
		BillboardID:  domainbilling.ID(req.BillboardID),
		AdvertiserID: p.ID,
		Start:        req.StartDate,
		End:          req.EndDate,
		Message:      req.Message,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapBookingView(view))
}

func (h BookingHandler) Get(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	view, err := h.Service.Get(c.Request.Context(), domainbooking.ID(c.Param("id")), p.ID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingView(view))
}

type updateStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	ResponseMessage string `json:"response_message"`
}

// UpdateStatus is the owner decision endpoint; ownership is enforced by the
// service against the billboard behind the request.
func (h BookingHandler) UpdateStatus(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	status, err := domainbooking.ParseStatus(req.Status)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	view, err := h.Service.UpdateStatus(c.Request.Context(), domainbooking.ID(c.Param("id")), p.ID, status, req.ResponseMessage)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingView(view))
}

func (h BookingHandler) Cancel(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	view, err := h.Service.Cancel(c.Request.Context(), domainbooking.ID(c.Param("id")), p.ID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingView(view))
}

type disputeRequest struct {
	DisputeReason string `json:"dispute_reason" binding:"required"`
}

func (h BookingHandler) OpenDispute(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	var req disputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	view, err := h.Service.OpenDispute(c.Request.Context(), domainbooking.ID(c.Param("id")), p.ID, req.DisputeReason)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingView(view))
}

func (h BookingHandler) ListMine(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	page, limit, offset := pageParams(c)
	views, total, err := h.Service.ListForAdvertiser(c.Request.Context(), p.ID, reservationsvc.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingCollection(views, page, limit, total))
}

func (h BookingHandler) ListForOwner(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleOwner)
	if !ok {
		return
	}
	page, limit, offset := pageParams(c)
	views, total, err := h.Service.ListForOwner(c.Request.Context(), p.ID, reservationsvc.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBookingCollection(views, page, limit, total))
}

var _ BookingHTTP = BookingHandler{}

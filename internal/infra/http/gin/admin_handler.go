package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"adboard/internal/app/dto"
	moderationsvc "adboard/internal/app/services/moderation"
	domainbilling "adboard/internal/domain/billboard"
	domainbooking "adboard/internal/domain/booking"
	domaincomplaint "adboard/internal/domain/complaint"
	domainuser "adboard/internal/domain/user"
)

type AdminHTTP interface {
	ListBillboards(c *gin.Context)
	ReviewBillboard(c *gin.Context)
	ListUsers(c *gin.Context)
	PromoteAdmin(c *gin.Context)
	ListComplaints(c *gin.Context)
	UpdateComplaintStatus(c *gin.Context)
	ListDisputes(c *gin.Context)
	UpdateDisputeStatus(c *gin.Context)
	Dashboard(c *gin.Context)
}

type AdminHandler struct {
	Service *moderationsvc.Service
	Logger  *slog.Logger
}

func (h AdminHandler) ListBillboards(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	page, limit, offset := pageParams(c)
	result, err := h.Service.ListBillboards(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBillboardCollection(result, page, limit))
}

type reviewBillboardRequest struct {
	IsApproved      *bool  `json:"is_approved" binding:"required"`
	RejectionReason string `json:"rejection_reason"`
}

func (h AdminHandler) ReviewBillboard(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req reviewBillboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	board, err := h.Service.ReviewBillboard(c.Request.Context(), domainbilling.ID(c.Param("id")), *req.IsApproved, req.RejectionReason)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBillboard(board))
}

func (h AdminHandler) ListUsers(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	page, limit, offset := pageParams(c)
	users, total, err := h.Service.ListUsers(c.Request.Context(), domainuser.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUserCollection(users, page, limit, total))
}

func (h AdminHandler) PromoteAdmin(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	user, err := h.Service.PromoteAdmin(c.Request.Context(), domainuser.ID(c.Param("id")))
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapUserProfile(user))
}

func (h AdminHandler) ListComplaints(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	page, limit, offset := pageParams(c)
	complaints, total, err := h.Service.ListComplaints(c.Request.Context(), domaincomplaint.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapComplaintCollection(complaints, page, limit, total))
}

type updateComplaintRequest struct {
	Status        string `json:"status" binding:"required"`
	AdminResponse string `json:"admin_response"`
}

func (h AdminHandler) UpdateComplaintStatus(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req updateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	updated, err := h.Service.UpdateComplaintStatus(c.Request.Context(), domaincomplaint.ID(c.Param("id")), req.Status, req.AdminResponse)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapComplaint(updated))
}

func (h AdminHandler) ListDisputes(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	page, limit, offset := pageParams(c)
	requests, total, err := h.Service.ListDisputes(c.Request.Context(), domainbooking.ListParams{Limit: limit, Offset: offset})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBareBookingCollection(requests, page, limit, total))
}

type updateDisputeRequest struct {
	DisputeStatus string `json:"dispute_status" binding:"required"`
}

func (h AdminHandler) UpdateDisputeStatus(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	var req updateDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	updated, err := h.Service.UpdateDisputeStatus(c.Request.Context(), domainbooking.ID(c.Param("id")), req.DisputeStatus)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBareBooking(updated))
}

func (h AdminHandler) Dashboard(c *gin.Context) {
	if _, ok := requireAdmin(c); !ok {
		return
	}
	dashboard, err := h.Service.BuildDashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapDashboard(dashboard))
}

var _ AdminHTTP = AdminHandler{}

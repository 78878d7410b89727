package ginserver

import (
	"log/slog"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"adboard/internal/app/dto"
	listingsvc "adboard/internal/app/services/listing"
	domainbilling "adboard/internal/domain/billboard"
	domainuser "adboard/internal/domain/user"
)

const maxImageSizeBytes int64 = 10 * 1024 * 1024

type BillboardHTTP interface {
	Catalog(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	UploadImage(c *gin.Context)
	ListMine(c *gin.Context)
}

type BillboardHandler struct {
	Service *listingsvc.Service
	Logger  *slog.Logger
}

// Catalog is the public listing search; only approved and available boards
// show up here.
func (h BillboardHandler) Catalog(c *gin.Context) {
	page, limit, offset := pageParams(c)
	result, err := h.Service.Search(c.Request.Context(), domainbilling.SearchParams{
		Query:    strings.TrimSpace(c.Query("q")),
		Size:     strings.TrimSpace(c.Query("size")),
		PriceMin: parseInt64(c.Query("price_min")),
		PriceMax: parseInt64(c.Query("price_max")),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBillboardCollection(result, page, limit))
}

func (h BillboardHandler) Get(c *gin.Context) {
	p, _ := currentPrincipal(c)
	board, err := h.Service.Get(c.Request.Context(), domainbilling.ID(c.Param("id")), p.ID, p.Admin)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBillboard(board))
}

type billboardRequest struct {
	Name         string `json:"name" binding:"required"`
	Location     string `json:"location" binding:"required"`
	Size         string `json:"size"`
	PricePerDay  int64  `json:"price_per_day"`
	Currency     string `json:"currency"`
	Description  string `json:"description"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	IsAvailable  *bool  `json:"is_available"`
}

func (h BillboardHandler) Create(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleOwner)
	if !ok {
		return
	}
	var req billboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	board, err := h.Service.Create(c.Request.Context(), listingsvc.CreateParams{
		OwnerID:      p.ID,
		Name:         req.Name,
		Location:     req.Location,
		Size:         req.Size,
		PricePerDay:  req.PricePerDay,
		Currency:     req.Currency,
		Description:  req.Description,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.MapBillboard(board))
}

func (h BillboardHandler) Update(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleOwner)
	if !ok {
		return
	}
	var req billboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	board, err := h.Service.Update(c.Request.Context(), domainbilling.ID(c.Param("id")), p.ID, listingsvc.UpdateParams{
		Name:         req.Name,
		Location:     req.Location,
		Size:         req.Size,
		PricePerDay:  req.PricePerDay,
		Currency:     req.Currency,
		Description:  req.Description,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Available:    req.IsAvailable,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBillboard(board))
}

func (h BillboardHandler) Delete(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleOwner)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), domainbilling.ID(c.Param("id")), p.ID); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h BillboardHandler) UploadImage(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleOwner)
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()
	if header.Size > maxImageSizeBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds size limit"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	board, err := h.Service.UploadImage(c.Request.Context(), domainbilling.ID(c.Param("id")), p.ID, file, contentType)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBillboard(board))
}

func (h BillboardHandler) ListMine(c *gin.Context) {
	p, ok := requireRole(c, domainuser.RoleOwner)
	if !ok {
		return
	}
	page, limit, offset := pageParams(c)
	result, err := h.Service.ListForOwner(c.Request.Context(), p.ID, limit, offset)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapBillboardCollection(result, page, limit))
}

var _ BillboardHTTP = BillboardHandler{}

package dto

import (
	"time"

	domainbilling "adboard/internal/domain/billboard"
)

type Billboard struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	Name            string    `json:"name"`
	Location        string    `json:"location"`
	Size            string    `json:"size,omitempty"`
	PricePerDay     int64     `json:"price_per_day"`
	Currency        string    `json:"currency"`
	Description     string    `json:"description,omitempty"`
	ContactPhone    string    `json:"contact_phone,omitempty"`
	ContactEmail    string    `json:"contact_email,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	IsAvailable     bool      `json:"is_available"`
	IsApproved      bool      `json:"is_approved"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BillboardSnapshot is the display slice joined onto booking payloads.
type BillboardSnapshot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Size        string `json:"size,omitempty"`
	PricePerDay int64  `json:"price_per_day"`
	Currency    string `json:"currency"`
	ImageURL    string `json:"image_url,omitempty"`
}

type BillboardCollection struct {
	Items      []Billboard `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

func MapBillboard(board *domainbilling.Billboard) Billboard {
	if board == nil {
		return Billboard{}
	}
	return Billboard{
		ID:              string(board.ID),
		OwnerID:         string(board.OwnerID),
		Name:            board.Name,
		Location:        board.Location,
		Size:            board.Size,
		PricePerDay:     board.PricePerDay.Amount,
		Currency:        board.PricePerDay.Currency,
		Description:     board.Description,
		ContactPhone:    board.ContactPhone,
		ContactEmail:    board.ContactEmail,
		ImageURL:        board.ImageURL,
		IsAvailable:     board.Available,
		IsApproved:      board.Approved,
		Status:          string(board.Status),
		RejectionReason: board.RejectionReason,
		CreatedAt:       board.CreatedAt,
		UpdatedAt:       board.UpdatedAt,
	}
}

func MapBillboardSnapshot(board *domainbilling.Billboard) BillboardSnapshot {
	if board == nil {
		return BillboardSnapshot{}
	}
	return BillboardSnapshot{
		ID:          string(board.ID),
		Name:        board.Name,
		Location:    board.Location,
		Size:        board.Size,
		PricePerDay: board.PricePerDay.Amount,
		Currency:    board.PricePerDay.Currency,
		ImageURL:    board.ImageURL,
	}
}

func MapBillboardCollection(result domainbilling.SearchResult, page, limit int) BillboardCollection {
	items := make([]Billboard, 0, len(result.Items))
	for _, board := range result.Items {
		items = append(items, MapBillboard(board))
	}
	return BillboardCollection{Items: items, Pagination: NewPagination(page, limit, result.Total)}
}

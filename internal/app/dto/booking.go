package dto

import (
	"time"

	"adboard/internal/app/services/reservation"
	domainbooking "adboard/internal/domain/booking"
)

// BookingRequest is the wire shape of a reservation joined with billboard and
// party display data.
type BookingRequest struct {
	ID            string            `json:"id"`
	Billboard     BillboardSnapshot `json:"billboard"`
	Owner         PartySnapshot     `json:"owner"`
	Advertiser    PartySnapshot     `json:"advertiser"`
	StartDate     time.Time         `json:"start_date"`
	EndDate       time.Time         `json:"end_date"`
	TotalAmount   int64             `json:"total_amount"`
	Currency      string            `json:"currency"`
	Status        string            `json:"status"`
	Message       string            `json:"message,omitempty"`
	Response      string            `json:"response,omitempty"`
	HasDispute    bool              `json:"has_dispute"`
	DisputeReason string            `json:"dispute_reason,omitempty"`
	DisputeStatus string            `json:"dispute_status,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type BookingCollection struct {
	Items      []BookingRequest `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

func MapBookingView(view *reservation.View) BookingRequest {
	if view == nil || view.Request == nil {
		return BookingRequest{}
	}
	request := view.Request
	return BookingRequest{
		ID:            string(request.ID),
		Billboard:     MapBillboardSnapshot(view.Billboard),
		Owner:         MapPartySnapshot(view.Owner),
		Advertiser:    MapPartySnapshot(view.Advertiser),
		StartDate:     request.Range.Start,
		EndDate:       request.Range.End,
		TotalAmount:   request.TotalAmount.Amount,
		Currency:      request.TotalAmount.Currency,
		Status:        string(request.Status),
		Message:       request.Message,
		Response:      request.Response,
		HasDispute:    request.HasDispute,
		DisputeReason: request.DisputeReason,
		DisputeStatus: string(request.DisputeStatus),
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}

func MapBookingCollection(views []*reservation.View, page, limit, total int) BookingCollection {
	items := make([]BookingRequest, 0, len(views))
	for _, view := range views {
		items = append(items, MapBookingView(view))
	}
	return BookingCollection{Items: items, Pagination: NewPagination(page, limit, total)}
}

// MapBareBooking covers admin views where no join is composed.
func MapBareBooking(request *domainbooking.Request) BookingRequest {
	if request == nil {
		return BookingRequest{}
	}
	return BookingRequest{
		ID:            string(request.ID),
		Billboard:     BillboardSnapshot{ID: string(request.BillboardID)},
		Advertiser:    PartySnapshot{ID: string(request.AdvertiserID)},
		StartDate:     request.Range.Start,
		EndDate:       request.Range.End,
		TotalAmount:   request.TotalAmount.Amount,
		Currency:      request.TotalAmount.Currency,
		Status:        string(request.Status),
		Message:       request.Message,
		Response:      request.Response,
		HasDispute:    request.HasDispute,
		DisputeReason: request.DisputeReason,
		DisputeStatus: string(request.DisputeStatus),
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}

func MapBareBookingCollection(requests []*domainbooking.Request, page, limit, total int) BookingCollection {
	items := make([]BookingRequest, 0, len(requests))
	for _, request := range requests {
		items = append(items, MapBareBooking(request))
	}
	return BookingCollection{Items: items, Pagination: NewPagination(page, limit, total)}
}

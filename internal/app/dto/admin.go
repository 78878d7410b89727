package dto

import (
	"adboard/internal/app/services/moderation"
)

type Dashboard struct {
	Users             int              `json:"users"`
	Billboards        int              `json:"billboards"`
	PendingBillboards int              `json:"pending_billboards"`
	Bookings          int              `json:"bookings"`
	PendingBookings   int              `json:"pending_bookings"`
	OpenDisputes      int              `json:"open_disputes"`
	OpenComplaints    int              `json:"open_complaints"`
	RecentBookings    []BookingRequest `json:"recent_bookings"`
}

func MapDashboard(d *moderation.Dashboard) Dashboard {
	if d == nil {
		return Dashboard{}
	}
	recent := make([]BookingRequest, 0, len(d.RecentBookings))
	for _, request := range d.RecentBookings {
		recent = append(recent, MapBareBooking(request))
	}
	return Dashboard{
		Users:             d.Users,
		Billboards:        d.Billboards,
		PendingBillboards: d.PendingBillboards,
		Bookings:          d.Bookings,
		PendingBookings:   d.PendingBookings,
		OpenDisputes:      d.OpenDisputes,
		OpenComplaints:    d.OpenComplaints,
		RecentBookings:    recent,
	}
}

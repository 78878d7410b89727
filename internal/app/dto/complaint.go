package dto

import (
	"time"

	domaincomplaint "adboard/internal/domain/complaint"
)

type Complaint struct {
	ID            string    `json:"id"`
	AuthorID      string    `json:"author_id"`
	Subject       string    `json:"subject"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	AdminResponse string    `json:"admin_response,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ComplaintCollection struct {
	Items      []Complaint `json:"items"`
	Pagination Pagination  `json:"pagination"`
}

func MapComplaint(c *domaincomplaint.Complaint) Complaint {
	if c == nil {
		return Complaint{}
	}
	return Complaint{
		ID:            string(c.ID),
		AuthorID:      string(c.AuthorID),
		Subject:       c.Subject,
		Description:   c.Description,
		Status:        string(c.Status),
		AdminResponse: c.AdminResponse,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func MapComplaintCollection(complaints []*domaincomplaint.Complaint, page, limit, total int) ComplaintCollection {
	items := make([]Complaint, 0, len(complaints))
	for _, c := range complaints {
		items = append(items, MapComplaint(c))
	}
	return ComplaintCollection{Items: items, Pagination: NewPagination(page, limit, total)}
}

package dto

import (
	"time"

	"github.com/sigap-ti/sigap/internal/domain"
)

// CreateZoomTicketRequest payload. Date is "2006-01-02"; times are "HH:MM".
type CreateZoomTicketRequest struct {
	MeetingTitle string `json:"meeting_title"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Participants int    `json:"participants"`
	ZoomAccount  string `json:"zoom_account"`
}

// ReviewZoomTicketRequest payload.
type ReviewZoomTicketRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// ZoomTicketResponse response.
type ZoomTicketResponse struct {
	ID              string            `json:"id"`
	TicketNumber    string            `json:"ticket_number"`
	UserID          string            `json:"user_id"`
	MeetingTitle    string            `json:"meeting_title"`
	Date            string            `json:"date"`
	StartTime       string            `json:"start_time"`
	EndTime         string            `json:"end_time"`
	Participants    int               `json:"participants"`
	ZoomAccount     string            `json:"zoom_account"`
	Status          domain.ZoomStatus `json:"status"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

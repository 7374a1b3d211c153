package domain

import (
	"fmt"
	"time"
)

// ZoomStatus enumerates lifecycle states for Zoom booking tickets.
type ZoomStatus string

const (
	ZoomStatusPendingReview ZoomStatus = "pending_review"
	ZoomStatusApproved      ZoomStatus = "approved"
	ZoomStatusRejected      ZoomStatus = "rejected"
	ZoomStatusCancelled     ZoomStatus = "cancelled"
)

// ParseZoomStatus validates a raw status string.
func ParseZoomStatus(raw string) (ZoomStatus, error) {
	switch ZoomStatus(raw) {
	case ZoomStatusPendingReview, ZoomStatusApproved, ZoomStatusRejected, ZoomStatusCancelled:
		return ZoomStatus(raw), nil
	}
	return "", fmt.Errorf("unknown zoom ticket status %q", raw)
}

// Terminal reports whether no further transitions are possible.
func (s ZoomStatus) Terminal() bool {
	return s != ZoomStatusPendingReview
}

// ZoomTicket is a meeting-room booking request. Times are wall-clock
// "HH:MM" strings on the booking date, matching how bookings are entered.
type ZoomTicket struct {
	ID              string
	TicketNumber    string
	UserID          string
	MeetingTitle    string
	Date            time.Time
	StartTime       string
	EndTime         string
	Participants    int
	ZoomAccount     string
	Status          ZoomStatus
	RejectionReason string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *ZoomTicket) TicketType() TicketType { return TicketTypeZoomMeeting }
func (t *ZoomTicket) TicketID() string       { return t.ID }
func (t *ZoomTicket) OwnerID() string        { return t.UserID }

// Overlaps reports whether two bookings on the same date and account collide.
func (t *ZoomTicket) Overlaps(other *ZoomTicket) bool {
	if t.ZoomAccount != other.ZoomAccount {
		return false
	}
	if !sameDay(t.Date, other.Date) {
		return false
	}
	return t.StartTime < other.EndTime && other.StartTime < t.EndTime
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

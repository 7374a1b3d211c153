package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/events"
	"github.com/sigap-ti/sigap/internal/repository"
	"github.com/sigap-ti/sigap/internal/workflow"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

// ZoomService manages meeting-room booking tickets.
type ZoomService struct {
	zoomTickets repository.ZoomTicketRepository
	dispatcher  events.Dispatcher
}

// NewZoomService constructs the service.
func NewZoomService(zoomTickets repository.ZoomTicketRepository, dispatcher events.Dispatcher) *ZoomService {
	return &ZoomService{zoomTickets: zoomTickets, dispatcher: dispatcher}
}

// ZoomBookingInput describes a booking request.
type ZoomBookingInput struct {
	MeetingTitle string
	Date         time.Time
	StartTime    string
	EndTime      string
	Participants int
	ZoomAccount  string
}

// CreateBooking files a booking after checking the requested slot against
// pending and approved bookings on the same account and date.
func (s *ZoomService) CreateBooking(ctx context.Context, actor workflow.Actor, input ZoomBookingInput) (*domain.ZoomTicket, error) {
	if strings.TrimSpace(input.MeetingTitle) == "" {
		return nil, apperrors.NewValidationError("meeting title required", nil)
	}
	if strings.TrimSpace(input.ZoomAccount) == "" {
		return nil, apperrors.NewValidationError("zoom account required", nil)
	}
	startTime, err := parseClockTime(input.StartTime)
	if err != nil {
		return nil, apperrors.NewValidationError("start time must be HH:MM", nil)
	}
	endTime, err := parseClockTime(input.EndTime)
	if err != nil {
		return nil, apperrors.NewValidationError("end time must be HH:MM", nil)
	}
	if startTime >= endTime {
		return nil, apperrors.NewValidationError("start time must precede end time", nil)
	}

	ticket := &domain.ZoomTicket{
		TicketNumber: generateTicketNumber("ZM"),
		UserID:       actor.UserID,
		MeetingTitle: strings.TrimSpace(input.MeetingTitle),
		Date:         input.Date,
		StartTime:    startTime,
		EndTime:      endTime,
		Participants: input.Participants,
		ZoomAccount:  strings.TrimSpace(input.ZoomAccount),
		Status:       domain.ZoomStatusPendingReview,
	}

	existing, err := s.zoomTickets.ListForDay(ctx, ticket.ZoomAccount, ticket.Date,
		[]domain.ZoomStatus{domain.ZoomStatusPendingReview, domain.ZoomStatusApproved})
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if ticket.Overlaps(&existing[i]) {
			return nil, apperrors.NewConflict("time slot already booked", map[string]any{
				"conflicting_ticket": existing[i].TicketNumber,
			})
		}
	}

	if err := s.zoomTickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventZoomTicketCreated,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.ZoomTicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			Date:         ticket.Date.Format("2006-01-02"),
			StartTime:    ticket.StartTime,
			EndTime:      ticket.EndTime,
			ZoomAccount:  ticket.ZoomAccount,
		},
	})
	return ticket, nil
}

// List returns bookings visible to the caller.
func (s *ZoomService) List(ctx context.Context, actor workflow.Actor, filter repository.ZoomTicketFilter) ([]domain.ZoomTicket, error) {
	switch actor.Role {
	case domain.RoleAdminLayanan, domain.RoleSuperAdmin:
	default:
		filter.UserID = &actor.UserID
	}
	return s.zoomTickets.ListWithFilter(ctx, filter)
}

// Get returns one booking the caller may see.
func (s *ZoomService) Get(ctx context.Context, actor workflow.Actor, id string) (*domain.ZoomTicket, workflow.Decision, error) {
	ticket, err := s.fetch(ctx, id)
	if err != nil {
		return nil, workflow.Decision{}, err
	}
	switch actor.Role {
	case domain.RoleAdminLayanan, domain.RoleSuperAdmin:
	default:
		if ticket.UserID != actor.UserID {
			return nil, workflow.Decision{}, apperrors.NewForbidden("access denied")
		}
	}
	decision, err := workflow.Evaluate(ticket, nil, actor)
	if err != nil {
		return nil, workflow.Decision{}, err
	}
	return ticket, decision, nil
}

// Review resolves a pending booking to approved, rejected or cancelled.
func (s *ZoomService) Review(ctx context.Context, actor workflow.Actor, id string, next domain.ZoomStatus, reason string) (*domain.ZoomTicket, error) {
	ticket, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	decision, err := workflow.Evaluate(ticket, nil, actor)
	if err != nil {
		return nil, err
	}
	if len(decision.Allowed) == 0 && ticket.Status == domain.ZoomStatusPendingReview {
		return nil, apperrors.NewForbidden("review requires a service admin")
	}
	if err := workflow.ValidateZoomTransition(ticket.Status, next); err != nil {
		return nil, err
	}
	if next == domain.ZoomStatusRejected && strings.TrimSpace(reason) == "" {
		return nil, apperrors.NewValidationError("rejection reason required", nil)
	}

	ticket.Status = next
	ticket.RejectionReason = strings.TrimSpace(reason)
	if err := s.zoomTickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventZoomTicketReviewed,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload:  events.ZoomTicketReviewedPayload{NewStatus: ticket.Status, Reason: ticket.RejectionReason},
	})
	return ticket, nil
}

// DailySchedule returns the approved bookings for one account and day, for
// the daily grid view.
func (s *ZoomService) DailySchedule(ctx context.Context, account string, date time.Time) ([]domain.ZoomTicket, error) {
	return s.zoomTickets.ListForDay(ctx, account, date, []domain.ZoomStatus{domain.ZoomStatusApproved})
}

// parseClockTime validates a wall-clock "HH:MM" value and returns it
// zero-padded, so stored times compare correctly as strings.
func parseClockTime(raw string) (string, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return parsed.Format("15:04"), nil
}

func (s *ZoomService) fetch(ctx context.Context, id string) (*domain.ZoomTicket, error) {
	ticket, err := s.zoomTickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("zoom ticket", nil)
		}
		return nil, err
	}
	return ticket, nil
}

func (s *ZoomService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

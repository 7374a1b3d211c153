package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/repository"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

type fakeZoomRepo struct {
	tickets map[string]*domain.ZoomTicket
	seq     int
}

func newFakeZoomRepo() *fakeZoomRepo {
	return &fakeZoomRepo{tickets: map[string]*domain.ZoomTicket{}}
}

func (r *fakeZoomRepo) Create(ctx context.Context, ticket *domain.ZoomTicket) error {
	r.seq++
	if ticket.ID == "" {
		ticket.ID = "z-" + strconv.Itoa(r.seq)
	}
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeZoomRepo) Update(ctx context.Context, ticket *domain.ZoomTicket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeZoomRepo) GetByID(ctx context.Context, id string) (*domain.ZoomTicket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeZoomRepo) ListWithFilter(ctx context.Context, filter repository.ZoomTicketFilter) ([]domain.ZoomTicket, error) {
	var out []domain.ZoomTicket
	for _, ticket := range r.tickets {
		if filter.UserID != nil && ticket.UserID != *filter.UserID {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func (r *fakeZoomRepo) ListForDay(ctx context.Context, account string, date time.Time, statuses []domain.ZoomStatus) ([]domain.ZoomTicket, error) {
	var out []domain.ZoomTicket
	for _, ticket := range r.tickets {
		if ticket.ZoomAccount != account || !ticket.Date.Equal(date) {
			continue
		}
		for _, status := range statuses {
			if ticket.Status == status {
				out = append(out, *ticket)
				break
			}
		}
	}
	return out, nil
}

func newZoomService() (*ZoomService, *fakeZoomRepo, *recordingDispatcher) {
	repo := newFakeZoomRepo()
	dispatcher := &recordingDispatcher{}
	return NewZoomService(repo, dispatcher), repo, dispatcher
}

func bookingInput(start, end string) ZoomBookingInput {
	return ZoomBookingInput{
		MeetingTitle: "weekly sync",
		Date:         time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		StartTime:    start,
		EndTime:      end,
		Participants: 12,
		ZoomAccount:  "zoom-a",
	}
}

func TestCreateBookingStartsPendingReview(t *testing.T) {
	svc, _, _ := newZoomService()

	ticket, err := svc.CreateBooking(context.Background(), actorFor("emp-1", domain.RolePegawai), bookingInput("09:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.ZoomStatusPendingReview, ticket.Status)
	assert.NotEmpty(t, ticket.TicketNumber)
}

func TestCreateBookingNormalizesUnpaddedTimes(t *testing.T) {
	svc, _, _ := newZoomService()
	actor := actorFor("emp-1", domain.RolePegawai)

	ticket, err := svc.CreateBooking(context.Background(), actor, bookingInput("9:00", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, "09:00", ticket.StartTime)
	assert.Equal(t, "10:00", ticket.EndTime)

	// The padded form collides with already-stored padded rows.
	_, err = svc.CreateBooking(context.Background(), actor, bookingInput("9:30", "10:30"))
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestCreateBookingRejectsMalformedTimes(t *testing.T) {
	svc, _, _ := newZoomService()
	actor := actorFor("emp-1", domain.RolePegawai)

	for _, input := range []ZoomBookingInput{
		bookingInput("25:00", "26:00"),
		bookingInput("nine", "ten"),
		bookingInput("", "10:00"),
	} {
		_, err := svc.CreateBooking(context.Background(), actor, input)
		assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	svc, _, _ := newZoomService()
	actor := actorFor("emp-1", domain.RolePegawai)

	_, err := svc.CreateBooking(context.Background(), actor, bookingInput("09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), actor, bookingInput("09:30", "10:30"))
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	// Back-to-back slots do not overlap.
	_, err = svc.CreateBooking(context.Background(), actor, bookingInput("10:00", "11:00"))
	assert.NoError(t, err)
}

func TestCreateBookingIgnoresOtherAccounts(t *testing.T) {
	svc, _, _ := newZoomService()
	actor := actorFor("emp-1", domain.RolePegawai)

	_, err := svc.CreateBooking(context.Background(), actor, bookingInput("09:00", "10:00"))
	require.NoError(t, err)

	other := bookingInput("09:00", "10:00")
	other.ZoomAccount = "zoom-b"
	_, err = svc.CreateBooking(context.Background(), actor, other)
	assert.NoError(t, err)
}

func TestReviewApprovesPendingBooking(t *testing.T) {
	svc, _, _ := newZoomService()
	ticket, err := svc.CreateBooking(context.Background(), actorFor("emp-1", domain.RolePegawai), bookingInput("09:00", "10:00"))
	require.NoError(t, err)

	approved, err := svc.Review(context.Background(), actorFor("adm-1", domain.RoleAdminLayanan), ticket.ID, domain.ZoomStatusApproved, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ZoomStatusApproved, approved.Status)
}

func TestReviewRejectionNeedsReason(t *testing.T) {
	svc, _, _ := newZoomService()
	ticket, err := svc.CreateBooking(context.Background(), actorFor("emp-1", domain.RolePegawai), bookingInput("09:00", "10:00"))
	require.NoError(t, err)
	admin := actorFor("adm-1", domain.RoleAdminLayanan)

	_, err = svc.Review(context.Background(), admin, ticket.ID, domain.ZoomStatusRejected, "")
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	rejected, err := svc.Review(context.Background(), admin, ticket.ID, domain.ZoomStatusRejected, "account in maintenance")
	require.NoError(t, err)
	assert.Equal(t, "account in maintenance", rejected.RejectionReason)
}

func TestReviewDeniedForNonAdmins(t *testing.T) {
	svc, _, _ := newZoomService()
	ticket, err := svc.CreateBooking(context.Background(), actorFor("emp-1", domain.RolePegawai), bookingInput("09:00", "10:00"))
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), actorFor("emp-1", domain.RolePegawai), ticket.ID, domain.ZoomStatusApproved, "")
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestReviewResolvedBookingIsFinal(t *testing.T) {
	svc, _, _ := newZoomService()
	ticket, err := svc.CreateBooking(context.Background(), actorFor("emp-1", domain.RolePegawai), bookingInput("09:00", "10:00"))
	require.NoError(t, err)
	admin := actorFor("adm-1", domain.RoleAdminLayanan)

	_, err = svc.Review(context.Background(), admin, ticket.ID, domain.ZoomStatusApproved, "")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), admin, ticket.ID, domain.ZoomStatusCancelled, "")
	assert.Equal(t, "INVALID_TRANSITION", apperrors.ToDomainError(err).Code)
}

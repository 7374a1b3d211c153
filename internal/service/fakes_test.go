package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/events"
	"github.com/sigap-ti/sigap/internal/repository"
)

// In-memory repository fakes. They implement just enough filtering for the
// service paths under test.

type fakeTicketRepo struct {
	tickets map[string]*domain.RepairTicket
	seq     int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.RepairTicket{}}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.RepairTicket) error {
	r.seq++
	if ticket.ID == "" {
		ticket.ID = "t-" + strconv.Itoa(r.seq)
	}
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *domain.RepairTicket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.RepairTicket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) GetByNumber(ctx context.Context, number string) (*domain.RepairTicket, error) {
	for _, ticket := range r.tickets {
		if ticket.TicketNumber == number {
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.RepairTicket, error) {
	var out []domain.RepairTicket
	for _, ticket := range r.tickets {
		if filter.UserID != nil && ticket.UserID != *filter.UserID {
			continue
		}
		if filter.AssignedTo != nil {
			if ticket.AssignedTo == nil || *ticket.AssignedTo != *filter.AssignedTo {
				continue
			}
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if filter.SearchTerm != nil && !strings.Contains(strings.ToLower(ticket.Title), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func containsStatus(statuses []domain.RepairStatus, status domain.RepairStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeDiagnosisRepo struct {
	byTicket map[string]*domain.Diagnosis
}

func newFakeDiagnosisRepo() *fakeDiagnosisRepo {
	return &fakeDiagnosisRepo{byTicket: map[string]*domain.Diagnosis{}}
}

func (r *fakeDiagnosisRepo) Upsert(ctx context.Context, diagnosis *domain.Diagnosis) error {
	if diagnosis.ID == "" {
		diagnosis.ID = "d-" + diagnosis.TicketID
	}
	clone := *diagnosis
	r.byTicket[diagnosis.TicketID] = &clone
	return nil
}

func (r *fakeDiagnosisRepo) GetByTicket(ctx context.Context, ticketID string) (*domain.Diagnosis, error) {
	diagnosis, ok := r.byTicket[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *diagnosis
	return &clone, nil
}

type fakeWorkOrderRepo struct {
	orders map[string]*domain.WorkOrder
	seq    int
}

func newFakeWorkOrderRepo() *fakeWorkOrderRepo {
	return &fakeWorkOrderRepo{orders: map[string]*domain.WorkOrder{}}
}

func (r *fakeWorkOrderRepo) Create(ctx context.Context, workOrder *domain.WorkOrder) error {
	r.seq++
	if workOrder.ID == "" {
		workOrder.ID = "wo-" + strconv.Itoa(r.seq)
	}
	clone := *workOrder
	r.orders[workOrder.ID] = &clone
	return nil
}

func (r *fakeWorkOrderRepo) Update(ctx context.Context, workOrder *domain.WorkOrder) error {
	if _, ok := r.orders[workOrder.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *workOrder
	r.orders[workOrder.ID] = &clone
	return nil
}

func (r *fakeWorkOrderRepo) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	workOrder, ok := r.orders[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *workOrder
	return &clone, nil
}

func (r *fakeWorkOrderRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.WorkOrder, error) {
	var out []domain.WorkOrder
	for _, workOrder := range r.orders {
		if workOrder.TicketID == ticketID {
			out = append(out, *workOrder)
		}
	}
	return out, nil
}

func (r *fakeWorkOrderRepo) ListWithFilter(ctx context.Context, filter repository.WorkOrderFilter) ([]domain.WorkOrder, int, error) {
	var out []domain.WorkOrder
	for _, workOrder := range r.orders {
		if filter.TicketID != nil && workOrder.TicketID != *filter.TicketID {
			continue
		}
		out = append(out, *workOrder)
	}
	return out, len(out), nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = "u-" + user.NIP
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByNIP(ctx context.Context, nip string) (*domain.User, error) {
	for _, user := range r.users {
		if user.NIP == nip {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListWithFilter(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	var out []domain.User
	for _, user := range r.users {
		if filter.Role != nil && !user.HasRole(*filter.Role) {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

// recordingDispatcher keeps published events for assertions.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

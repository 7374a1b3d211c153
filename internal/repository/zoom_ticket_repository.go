package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sigap-ti/sigap/internal/domain"
)

// ZoomTicketFilter captures booking listing parameters.
type ZoomTicketFilter struct {
	UserID   *string
	Date     *time.Time
	Statuses []domain.ZoomStatus
	Limit    int
	Offset   int
}

// ZoomTicketRepository encapsulates Zoom booking persistence.
type ZoomTicketRepository interface {
	Create(ctx context.Context, ticket *domain.ZoomTicket) error
	Update(ctx context.Context, ticket *domain.ZoomTicket) error
	GetByID(ctx context.Context, id string) (*domain.ZoomTicket, error)
	ListWithFilter(ctx context.Context, filter ZoomTicketFilter) ([]domain.ZoomTicket, error)
	ListForDay(ctx context.Context, account string, date time.Time, statuses []domain.ZoomStatus) ([]domain.ZoomTicket, error)
}

type zoomTicketRepository struct {
	pool *pgxpool.Pool
}

// NewZoomTicketRepository instantiates repository.
func NewZoomTicketRepository(pool *pgxpool.Pool) ZoomTicketRepository {
	return &zoomTicketRepository{pool: pool}
}

const zoomColumns = `id, ticket_number, user_id, meeting_title, meeting_date, start_time,
               end_time, participants, zoom_account, status, rejection_reason, created_at, updated_at`

func (r *zoomTicketRepository) Create(ctx context.Context, ticket *domain.ZoomTicket) error {
	const query = `
        INSERT INTO zoom_tickets (ticket_number, user_id, meeting_title, meeting_date, start_time,
            end_time, participants, zoom_account, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.UserID,
		ticket.MeetingTitle,
		ticket.Date,
		ticket.StartTime,
		ticket.EndTime,
		ticket.Participants,
		ticket.ZoomAccount,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *zoomTicketRepository) Update(ctx context.Context, ticket *domain.ZoomTicket) error {
	const query = `
        UPDATE zoom_tickets SET status=$1, rejection_reason=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, ticket.Status, ticket.RejectionReason, ticket.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *zoomTicketRepository) GetByID(ctx context.Context, id string) (*domain.ZoomTicket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+zoomColumns+` FROM zoom_tickets WHERE id=$1`, id)
	return scanZoomRow(row)
}

func (r *zoomTicketRepository) ListWithFilter(ctx context.Context, filter ZoomTicketFilter) ([]domain.ZoomTicket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		clauses = append(clauses, fmt.Sprintf("meeting_date=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM zoom_tickets WHERE %s ORDER BY meeting_date DESC, start_time ASC LIMIT %d OFFSET %d`,
		zoomColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanZoomTickets(rows)
}

func (r *zoomTicketRepository) ListForDay(ctx context.Context, account string, date time.Time, statuses []domain.ZoomStatus) ([]domain.ZoomTicket, error) {
	args := []any{account, date}
	placeholders := make([]string, len(statuses))
	for i, status := range statuses {
		args = append(args, status)
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}
	query := fmt.Sprintf(`SELECT %s FROM zoom_tickets
        WHERE zoom_account=$1 AND meeting_date=$2 AND status IN (%s)
        ORDER BY start_time ASC`, zoomColumns, strings.Join(placeholders, ","))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanZoomTickets(rows)
}

func scanZoomRow(row rowScanner) (*domain.ZoomTicket, error) {
	var ticket domain.ZoomTicket
	var rawStatus string
	if err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.UserID,
		&ticket.MeetingTitle,
		&ticket.Date,
		&ticket.StartTime,
		&ticket.EndTime,
		&ticket.Participants,
		&ticket.ZoomAccount,
		&rawStatus,
		&ticket.RejectionReason,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	status, err := domain.ParseZoomStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	ticket.Status = status
	return &ticket, nil
}

func scanZoomTickets(rows pgx.Rows) ([]domain.ZoomTicket, error) {
	var result []domain.ZoomTicket
	for rows.Next() {
		ticket, err := scanZoomRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

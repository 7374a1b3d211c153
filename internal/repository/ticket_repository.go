package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sigap-ti/sigap/internal/domain"
)

// TicketFilter captures repair ticket search parameters.
type TicketFilter struct {
	UserID     *string
	AssignedTo *string
	Statuses   []domain.RepairStatus
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketRepository encapsulates repair ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.RepairTicket) error
	Update(ctx context.Context, ticket *domain.RepairTicket) error
	GetByID(ctx context.Context, id string) (*domain.RepairTicket, error)
	GetByNumber(ctx context.Context, number string) (*domain.RepairTicket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.RepairTicket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, ticket_number, user_id, assigned_to, title, description,
               asset_code, asset_nup, status, rejection_reason, work_orders_ready,
               created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.RepairTicket) error {
	const query = `
        INSERT INTO repair_tickets (ticket_number, user_id, title, description, asset_code, asset_nup, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.UserID,
		ticket.Title,
		ticket.Description,
		ticket.AssetCode,
		ticket.AssetNup,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.RepairTicket) error {
	const query = `
        UPDATE repair_tickets SET assigned_to=$1, title=$2, description=$3, status=$4,
            rejection_reason=$5, work_orders_ready=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.AssignedTo,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.RejectionReason,
		ticket.WorkOrdersReady,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.RepairTicket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM repair_tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.RepairTicket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM repair_tickets WHERE ticket_number=$1`, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.RepairTicket, error) {
	var ticket domain.RepairTicket
	var rawStatus string
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.UserID,
		&ticket.AssignedTo,
		&ticket.Title,
		&ticket.Description,
		&ticket.AssetCode,
		&ticket.AssetNup,
		&rawStatus,
		&ticket.RejectionReason,
		&ticket.WorkOrdersReady,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	status, err := domain.ParseRepairStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	ticket.Status = status
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.RepairTicket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s OR LOWER(ticket_number) LIKE %s)", placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM repair_tickets WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RepairTicket
	for rows.Next() {
		var ticket domain.RepairTicket
		var rawStatus string
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketNumber,
			&ticket.UserID,
			&ticket.AssignedTo,
			&ticket.Title,
			&ticket.Description,
			&ticket.AssetCode,
			&ticket.AssetNup,
			&rawStatus,
			&ticket.RejectionReason,
			&ticket.WorkOrdersReady,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		status, err := domain.ParseRepairStatus(rawStatus)
		if err != nil {
			return nil, err
		}
		ticket.Status = status
		result = append(result, ticket)
	}
	return result, rows.Err()
}

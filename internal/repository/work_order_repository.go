package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sigap-ti/sigap/internal/domain"
)

// WorkOrderFilter captures procurement listing parameters.
type WorkOrderFilter struct {
	TicketID *string
	Types    []domain.WorkOrderType
	Statuses []domain.WorkOrderStatus
	Limit    int
	Offset   int
}

// WorkOrderRepository encapsulates work order persistence.
type WorkOrderRepository interface {
	Create(ctx context.Context, workOrder *domain.WorkOrder) error
	Update(ctx context.Context, workOrder *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.WorkOrder, error)
	ListWithFilter(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, int, error)
}

type workOrderRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderRepository instantiates repository.
func NewWorkOrderRepository(pool *pgxpool.Pool) WorkOrderRepository {
	return &workOrderRepository{pool: pool}
}

const workOrderColumns = `id, ticket_id, type, status, items, vendor_name, vendor_contact,
               vendor_description, license_name, license_description, completion_notes,
               failure_reason, created_at, updated_at`

func (r *workOrderRepository) Create(ctx context.Context, workOrder *domain.WorkOrder) error {
	items, err := marshalItems(workOrder.Items)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO work_orders (ticket_id, type, status, items, vendor_name, vendor_contact,
            vendor_description, license_name, license_description)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		workOrder.TicketID,
		workOrder.Type,
		workOrder.Status,
		items,
		workOrder.VendorName,
		workOrder.VendorContact,
		workOrder.VendorDescription,
		workOrder.LicenseName,
		workOrder.LicenseDescription,
	).Scan(&workOrder.ID, &workOrder.CreatedAt, &workOrder.UpdatedAt)
}

func (r *workOrderRepository) Update(ctx context.Context, workOrder *domain.WorkOrder) error {
	items, err := marshalItems(workOrder.Items)
	if err != nil {
		return err
	}
	const query = `
        UPDATE work_orders SET status=$1, items=$2, vendor_name=$3, vendor_contact=$4,
            vendor_description=$5, license_name=$6, license_description=$7,
            completion_notes=$8, failure_reason=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		workOrder.Status,
		items,
		workOrder.VendorName,
		workOrder.VendorContact,
		workOrder.VendorDescription,
		workOrder.LicenseName,
		workOrder.LicenseDescription,
		workOrder.CompletionNotes,
		workOrder.FailureReason,
		workOrder.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workOrderRepository) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE id=$1`, id)
	return scanWorkOrderRow(row)
}

func (r *workOrderRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.WorkOrder, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+workOrderColumns+` FROM work_orders WHERE ticket_id=$1 ORDER BY created_at ASC`, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkOrders(rows)
}

func (r *workOrderRepository) ListWithFilter(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TicketID != nil {
		args = append(args, *filter.TicketID)
		clauses = append(clauses, fmt.Sprintf("ticket_id=$%d", len(args)))
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, woType := range filter.Types {
			args = append(args, woType)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM work_orders WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM work_orders WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		workOrderColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result, err := scanWorkOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkOrderRow(row rowScanner) (*domain.WorkOrder, error) {
	var wo domain.WorkOrder
	var rawItems []byte
	var rawStatus string
	if err := row.Scan(
		&wo.ID,
		&wo.TicketID,
		&wo.Type,
		&rawStatus,
		&rawItems,
		&wo.VendorName,
		&wo.VendorContact,
		&wo.VendorDescription,
		&wo.LicenseName,
		&wo.LicenseDescription,
		&wo.CompletionNotes,
		&wo.FailureReason,
		&wo.CreatedAt,
		&wo.UpdatedAt,
	); err != nil {
		return nil, err
	}
	status, err := domain.ParseWorkOrderStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	wo.Status = status
	if len(rawItems) > 0 {
		if err := json.Unmarshal(rawItems, &wo.Items); err != nil {
			return nil, fmt.Errorf("decode work order items: %w", err)
		}
	}
	return &wo, nil
}

func scanWorkOrders(rows pgx.Rows) ([]domain.WorkOrder, error) {
	var result []domain.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrderRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *wo)
	}
	return result, rows.Err()
}

func marshalItems(items []domain.WorkOrderItem) ([]byte, error) {
	if items == nil {
		items = []domain.WorkOrderItem{}
	}
	return json.Marshal(items)
}

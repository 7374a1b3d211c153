package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sigap-ti/sigap/internal/domain"
)

// DiagnosisRepository encapsulates diagnosis persistence. One row per ticket;
// a rediagnosis overwrites the previous verdict in place.
type DiagnosisRepository interface {
	Upsert(ctx context.Context, diagnosis *domain.Diagnosis) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.Diagnosis, error)
}

type diagnosisRepository struct {
	pool *pgxpool.Pool
}

// NewDiagnosisRepository instantiates repository.
func NewDiagnosisRepository(pool *pgxpool.Pool) DiagnosisRepository {
	return &diagnosisRepository{pool: pool}
}

func (r *diagnosisRepository) Upsert(ctx context.Context, diagnosis *domain.Diagnosis) error {
	const query = `
        INSERT INTO diagnoses (ticket_id, problem_category, problem_description, technician_notes, repair_type, unrepairable_reason)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (ticket_id) DO UPDATE SET
            problem_category=EXCLUDED.problem_category,
            problem_description=EXCLUDED.problem_description,
            technician_notes=EXCLUDED.technician_notes,
            repair_type=EXCLUDED.repair_type,
            unrepairable_reason=EXCLUDED.unrepairable_reason,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		diagnosis.TicketID,
		diagnosis.ProblemCategory,
		diagnosis.ProblemDescription,
		diagnosis.TechnicianNotes,
		diagnosis.RepairType,
		diagnosis.UnrepairableReason,
	).Scan(&diagnosis.ID, &diagnosis.CreatedAt, &diagnosis.UpdatedAt)
}

func (r *diagnosisRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.Diagnosis, error) {
	const query = `
        SELECT id, ticket_id, problem_category, problem_description, technician_notes,
               repair_type, unrepairable_reason, created_at, updated_at
        FROM diagnoses WHERE ticket_id=$1`
	var diagnosis domain.Diagnosis
	var rawType string
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&diagnosis.ID,
		&diagnosis.TicketID,
		&diagnosis.ProblemCategory,
		&diagnosis.ProblemDescription,
		&diagnosis.TechnicianNotes,
		&rawType,
		&diagnosis.UnrepairableReason,
		&diagnosis.CreatedAt,
		&diagnosis.UpdatedAt,
	); err != nil {
		return nil, err
	}
	repairType, err := domain.ParseRepairType(rawType)
	if err != nil {
		return nil, err
	}
	diagnosis.RepairType = repairType
	return &diagnosis, nil
}

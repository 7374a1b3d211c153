package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sigap-ti/sigap/internal/domain"
)

// AssetFilter captures BMN inventory search parameters.
type AssetFilter struct {
	KodeBarang *string
	NUP        *string
	Kondisi    *string
	Limit      int
	Offset     int
}

// AssetRepository encapsulates BMN asset persistence.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.AssetBMN) error
	Update(ctx context.Context, asset *domain.AssetBMN) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.AssetBMN, error)
	ListWithFilter(ctx context.Context, filter AssetFilter) ([]domain.AssetBMN, int, error)
	DistinctKondisi(ctx context.Context) ([]string, error)
}

type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository instantiates repository.
func NewAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &assetRepository{pool: pool}
}

const assetColumns = `id, kode_satker, nama_satker, kode_barang, nama_barang, nup, kondisi,
               merek, ruangan, serial_number, pengguna, created_at, updated_at`

func (r *assetRepository) Create(ctx context.Context, asset *domain.AssetBMN) error {
	const query = `
        INSERT INTO bmn_assets (kode_satker, nama_satker, kode_barang, nama_barang, nup, kondisi,
            merek, ruangan, serial_number, pengguna)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		asset.KodeSatker,
		asset.NamaSatker,
		asset.KodeBarang,
		asset.NamaBarang,
		asset.NUP,
		asset.Kondisi,
		asset.Merek,
		asset.Ruangan,
		asset.SerialNumber,
		asset.Pengguna,
	).Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
}

func (r *assetRepository) Update(ctx context.Context, asset *domain.AssetBMN) error {
	const query = `
        UPDATE bmn_assets SET kode_satker=$1, nama_satker=$2, kode_barang=$3, nama_barang=$4,
            nup=$5, kondisi=$6, merek=$7, ruangan=$8, serial_number=$9, pengguna=$10, updated_at=NOW()
        WHERE id=$11`
	cmd, err := r.pool.Exec(ctx, query,
		asset.KodeSatker,
		asset.NamaSatker,
		asset.KodeBarang,
		asset.NamaBarang,
		asset.NUP,
		asset.Kondisi,
		asset.Merek,
		asset.Ruangan,
		asset.SerialNumber,
		asset.Pengguna,
		asset.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM bmn_assets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id int64) (*domain.AssetBMN, error) {
	var asset domain.AssetBMN
	if err := r.pool.QueryRow(ctx, `SELECT `+assetColumns+` FROM bmn_assets WHERE id=$1`, id).Scan(
		&asset.ID,
		&asset.KodeSatker,
		&asset.NamaSatker,
		&asset.KodeBarang,
		&asset.NamaBarang,
		&asset.NUP,
		&asset.Kondisi,
		&asset.Merek,
		&asset.Ruangan,
		&asset.SerialNumber,
		&asset.Pengguna,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) ListWithFilter(ctx context.Context, filter AssetFilter) ([]domain.AssetBMN, int, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.KodeBarang != nil && strings.TrimSpace(*filter.KodeBarang) != "" {
		args = append(args, "%"+strings.TrimSpace(*filter.KodeBarang)+"%")
		clauses = append(clauses, fmt.Sprintf("kode_barang LIKE $%d", len(args)))
	}
	if filter.NUP != nil && strings.TrimSpace(*filter.NUP) != "" {
		args = append(args, strings.TrimSpace(*filter.NUP))
		clauses = append(clauses, fmt.Sprintf("nup=$%d", len(args)))
	}
	if filter.Kondisi != nil && strings.TrimSpace(*filter.Kondisi) != "" {
		args = append(args, strings.TrimSpace(*filter.Kondisi))
		clauses = append(clauses, fmt.Sprintf("kondisi=$%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bmn_assets WHERE `+where, args...).Scan(&total); err != nil {
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

	query := fmt.Sprintf(`SELECT %s FROM bmn_assets WHERE %s ORDER BY kode_barang ASC, nup ASC LIMIT %d OFFSET %d`,
		assetColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.AssetBMN
	for rows.Next() {
		var asset domain.AssetBMN
		if err := rows.Scan(
			&asset.ID,
			&asset.KodeSatker,
			&asset.NamaSatker,
			&asset.KodeBarang,
			&asset.NamaBarang,
			&asset.NUP,
			&asset.Kondisi,
			&asset.Merek,
			&asset.Ruangan,
			&asset.SerialNumber,
			&asset.Pengguna,
			&asset.CreatedAt,
			&asset.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *assetRepository) DistinctKondisi(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT kondisi FROM bmn_assets ORDER BY kondisi ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var kondisi string
		if err := rows.Scan(&kondisi); err != nil {
			return nil, err
		}
		values = append(values, kondisi)
	}
	return values, rows.Err()
}

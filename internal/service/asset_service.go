package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/repository"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

// AssetService manages the BMN inventory. Writes are gated to super_admin
// at the route layer; reads are open to any authenticated user.
type AssetService struct {
	assets repository.AssetRepository
}

// NewAssetService constructs the service.
func NewAssetService(assets repository.AssetRepository) *AssetService {
	return &AssetService{assets: assets}
}

// AssetInput carries the writable fields of an inventory record.
type AssetInput struct {
	KodeSatker   string
	NamaSatker   string
	KodeBarang   string
	NamaBarang   string
	NUP          string
	Kondisi      string
	Merek        string
	Ruangan      string
	SerialNumber string
	Pengguna     string
}

// Create registers a new asset record.
func (s *AssetService) Create(ctx context.Context, input AssetInput) (*domain.AssetBMN, error) {
	if err := validateAssetInput(input); err != nil {
		return nil, err
	}
	asset := assetFromInput(input)
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Update replaces the writable fields of an existing record.
func (s *AssetService) Update(ctx context.Context, id int64, input AssetInput) (*domain.AssetBMN, error) {
	if err := validateAssetInput(input); err != nil {
		return nil, err
	}
	asset, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := assetFromInput(input)
	updated.ID = asset.ID
	updated.CreatedAt = asset.CreatedAt
	if err := s.assets.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an asset record.
func (s *AssetService) Delete(ctx context.Context, id int64) error {
	if _, err := s.fetch(ctx, id); err != nil {
		return err
	}
	return s.assets.Delete(ctx, id)
}

// Get returns one asset record.
func (s *AssetService) Get(ctx context.Context, id int64) (*domain.AssetBMN, error) {
	return s.fetch(ctx, id)
}

// List returns a page of assets plus the total match count.
func (s *AssetService) List(ctx context.Context, filter repository.AssetFilter) ([]domain.AssetBMN, int, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	return s.assets.ListWithFilter(ctx, filter)
}

// KondisiValues returns the distinct condition labels present in the
// inventory, for filter dropdowns.
func (s *AssetService) KondisiValues(ctx context.Context) ([]string, error) {
	return s.assets.DistinctKondisi(ctx)
}

func (s *AssetService) fetch(ctx context.Context, id int64) (*domain.AssetBMN, error) {
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("asset", nil)
		}
		return nil, err
	}
	return asset, nil
}

func validateAssetInput(input AssetInput) error {
	if strings.TrimSpace(input.KodeBarang) == "" || strings.TrimSpace(input.NUP) == "" {
		return apperrors.NewValidationError("kode barang and nup are required", nil)
	}
	if strings.TrimSpace(input.NamaBarang) == "" {
		return apperrors.NewValidationError("nama barang is required", nil)
	}
	return nil
}

func assetFromInput(input AssetInput) *domain.AssetBMN {
	return &domain.AssetBMN{
		KodeSatker:   strings.TrimSpace(input.KodeSatker),
		NamaSatker:   strings.TrimSpace(input.NamaSatker),
		KodeBarang:   strings.TrimSpace(input.KodeBarang),
		NamaBarang:   strings.TrimSpace(input.NamaBarang),
		NUP:          strings.TrimSpace(input.NUP),
		Kondisi:      strings.TrimSpace(input.Kondisi),
		Merek:        strings.TrimSpace(input.Merek),
		Ruangan:      strings.TrimSpace(input.Ruangan),
		SerialNumber: strings.TrimSpace(input.SerialNumber),
		Pengguna:     strings.TrimSpace(input.Pengguna),
	}
}

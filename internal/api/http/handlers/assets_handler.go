package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sigap-ti/sigap/internal/api/dto"
	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/repository"
	"github.com/sigap-ti/sigap/internal/service"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

// AssetsHandler manages BMN inventory endpoints.
type AssetsHandler struct {
	service *service.AssetService
}

// NewAssetsHandler constructs handler.
func NewAssetsHandler(assetService *service.AssetService) *AssetsHandler {
	return &AssetsHandler{service: assetService}
}

// Create POST /assets.
func (h *AssetsHandler) Create(c *fiber.Ctx) error {
	var req dto.AssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	asset, err := h.service.Create(c.UserContext(), assetInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": assetResponse(asset)})
}

// Update PUT /assets/:id.
func (h *AssetsHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid asset id", nil)
	}
	var req dto.AssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	asset, err := h.service.Update(c.UserContext(), id, assetInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assetResponse(asset)})
}

// Delete DELETE /assets/:id.
func (h *AssetsHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid asset id", nil)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// Get GET /assets/:id.
func (h *AssetsHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewValidationError("invalid asset id", nil)
	}
	asset, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assetResponse(asset)})
}

// List GET /assets.
func (h *AssetsHandler) List(c *fiber.Ctx) error {
	filter := repository.AssetFilter{Limit: 50}
	if raw := strings.TrimSpace(c.Query("kode_barang")); raw != "" {
		filter.KodeBarang = &raw
	}
	if raw := strings.TrimSpace(c.Query("nup")); raw != "" {
		filter.NUP = &raw
	}
	if raw := strings.TrimSpace(c.Query("kondisi")); raw != "" {
		filter.Kondisi = &raw
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			filter.Limit = n
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			filter.Offset = n
		}
	}
	assets, total, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.AssetResponse, 0, len(assets))
	for i := range assets {
		items = append(items, assetResponse(&assets[i]))
	}
	return c.JSON(fiber.Map{"data": dto.AssetListResponse{Items: items, Total: total}})
}

// KondisiValues GET /assets/kondisi.
func (h *AssetsHandler) KondisiValues(c *fiber.Ctx) error {
	values, err := h.service.KondisiValues(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": values})
}

func assetInput(req dto.AssetRequest) service.AssetInput {
	return service.AssetInput{
		KodeSatker:   req.KodeSatker,
		NamaSatker:   req.NamaSatker,
		KodeBarang:   req.KodeBarang,
		NamaBarang:   req.NamaBarang,
		NUP:          req.NUP,
		Kondisi:      req.Kondisi,
		Merek:        req.Merek,
		Ruangan:      req.Ruangan,
		SerialNumber: req.SerialNumber,
		Pengguna:     req.Pengguna,
	}
}

func assetResponse(asset *domain.AssetBMN) dto.AssetResponse {
	return dto.AssetResponse{
		ID:           asset.ID,
		KodeSatker:   asset.KodeSatker,
		NamaSatker:   asset.NamaSatker,
		KodeBarang:   asset.KodeBarang,
		NamaBarang:   asset.NamaBarang,
		NUP:          asset.NUP,
		Kondisi:      asset.Kondisi,
		Merek:        asset.Merek,
		Ruangan:      asset.Ruangan,
		SerialNumber: asset.SerialNumber,
		Pengguna:     asset.Pengguna,
		CreatedAt:    asset.CreatedAt,
		UpdatedAt:    asset.UpdatedAt,
	}
}

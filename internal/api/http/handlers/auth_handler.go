package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sigap-ti/sigap/internal/api/dto"
	"github.com/sigap-ti/sigap/internal/auth"
	"github.com/sigap-ti/sigap/internal/service"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

// AuthHandler covers registration, login and session management.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	session, err := h.service.Register(c.UserContext(), service.RegisterInput{
		NIP:       req.NIP,
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		UnitKerja: req.UnitKerja,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": sessionResponse(session)})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.NIP == "" || req.Password == "" {
		return apperrors.NewValidationError("nip and password required", nil)
	}
	session, err := h.service.Login(c.UserContext(), req.NIP, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// SwitchRole POST /auth/switch-role.
func (h *AuthHandler) SwitchRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SwitchRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	session, err := h.service.SwitchRole(c.UserContext(), principal.User.ID, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(session)})
}

// ChangePassword POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ChangePassword(c.UserContext(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed": true}})
}

// Me GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"user":        userResponse(principal.User),
		"active_role": principal.ActiveRole,
	}})
}

func sessionResponse(session *service.Session) dto.SessionResponse {
	return dto.SessionResponse{
		Token:      session.Token,
		ExpiresAt:  session.ExpiresAt,
		ActiveRole: session.ActiveRole,
		User:       userResponse(session.User),
	}
}

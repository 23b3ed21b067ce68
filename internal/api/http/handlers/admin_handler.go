package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/restaurant-service/internal/api/dto"
	"github.com/spec-kit/restaurant-service/internal/domain"
	"github.com/spec-kit/restaurant-service/internal/service"
)

// AdminHandler exposes administrative account management endpoints.
type AdminHandler struct {
	accounts *service.AccountService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(accountService *service.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accountService}
}

// ListAccounts handles GET /api/admin/accounts.
func (h *AdminHandler) ListAccounts(c *fiber.Ctx) error {
	status := domain.ApprovalStatus(c.Query("status", string(domain.ApprovalStatusPending)))
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	accounts, err := h.accounts.ListByStatus(c.Context(), status, limit, offset)
	if err != nil {
		return err
	}

	items := make([]dto.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, dto.NewAccountResponse(account))
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"accounts": items,
		},
	})
}

// SetApproval handles POST /api/admin/accounts/:id/approval.
func (h *AdminHandler) SetApproval(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(http.StatusBadRequest, "account id required")
	}

	var req dto.ApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.accounts.SetApprovalStatus(c.Context(), id, domain.ApprovalStatus(req.Status))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"account": dto.NewAccountResponse(account),
		},
	})
}

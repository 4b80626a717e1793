package handler

import (
	"log/slog"

	"ministry/internal/delivery/api/response"
	"ministry/internal/domain/entity"
	"ministry/internal/domain/repository"
	"ministry/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RBACHandlerParams struct {
	fx.In

	RBACUC usecase.RBACUsecase
	Logger *slog.Logger
}

// RBACHandler administers roles, permissions, departments and user accounts.
type RBACHandler struct {
	rbacUC usecase.RBACUsecase
	logger *slog.Logger
}

func NewRBACHandler(params RBACHandlerParams) *RBACHandler {
	return &RBACHandler{
		rbacUC: params.RBACUC,
		logger: params.Logger,
	}
}

type RoleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type PermissionRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

type DepartmentRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Description string     `json:"description" validate:"max=2000"`
	HeadUserID  *uuid.UUID `json:"head_user_id"`
}

type SyncIDsRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"omitempty,max=500"`
}

type UserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended"`
}

// --- Roles ---

func (h *RBACHandler) ListRoles(c echo.Context) error {
	roles, err := h.rbacUC.ListRoles(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Roles", roles)
}

func (h *RBACHandler) GetRole(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	role, err := h.rbacUC.GetRole(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Role", role)
}

func (h *RBACHandler) CreateRole(c echo.Context) error {
	var req RoleRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	role, err := h.rbacUC.CreateRole(c.Request().Context(), &usecase.RoleInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Role created", role)
}

func (h *RBACHandler) UpdateRole(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req RoleRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	role, err := h.rbacUC.UpdateRole(c.Request().Context(), id, &usecase.RoleInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Role updated", role)
}

func (h *RBACHandler) DeleteRole(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.rbacUC.DeleteRole(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Role deleted", nil)
}

func (h *RBACHandler) SyncRolePermissions(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req SyncIDsRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	role, err := h.rbacUC.SyncRolePermissions(c.Request().Context(), id, req.IDs)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Role permissions synced", role)
}

// --- Permissions ---

func (h *RBACHandler) ListPermissions(c echo.Context) error {
	permissions, err := h.rbacUC.ListPermissions(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Permissions", permissions)
}

func (h *RBACHandler) CreatePermission(c echo.Context) error {
	var req PermissionRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	permission, err := h.rbacUC.CreatePermission(c.Request().Context(), &usecase.PermissionInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Permission created", permission)
}

func (h *RBACHandler) UpdatePermission(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req PermissionRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	permission, err := h.rbacUC.UpdatePermission(c.Request().Context(), id, &usecase.PermissionInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Permission updated", permission)
}

func (h *RBACHandler) DeletePermission(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.rbacUC.DeletePermission(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Permission deleted", nil)
}

// --- Departments ---

func (h *RBACHandler) ListDepartments(c echo.Context) error {
	departments, err := h.rbacUC.ListDepartments(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Departments", departments)
}

func (h *RBACHandler) GetDepartment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	department, err := h.rbacUC.GetDepartment(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Department", department)
}

func (h *RBACHandler) CreateDepartment(c echo.Context) error {
	var req DepartmentRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	department, err := h.rbacUC.CreateDepartment(c.Request().Context(), &usecase.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		HeadUserID:  req.HeadUserID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Created(c, "Department created", department)
}

func (h *RBACHandler) UpdateDepartment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req DepartmentRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	department, err := h.rbacUC.UpdateDepartment(c.Request().Context(), id, &usecase.DepartmentInput{
		Name:        req.Name,
		Description: req.Description,
		HeadUserID:  req.HeadUserID,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Department updated", department)
}

func (h *RBACHandler) DeleteDepartment(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.rbacUC.DeleteDepartment(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Department deleted", nil)
}

func (h *RBACHandler) SyncDepartmentMembers(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req SyncIDsRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	department, err := h.rbacUC.SyncDepartmentMembers(c.Request().Context(), id, req.IDs)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "Department members synced", department)
}

// --- Users ---

func (h *RBACHandler) ListUsers(c echo.Context) error {
	p, err := pagination(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	page, err := h.rbacUC.ListUsers(c.Request().Context(), repository.UserFilter{
		Search:     c.QueryParam("search"),
		Status:     entity.UserStatus(c.QueryParam("status")),
		Role:       c.QueryParam("role"),
		Pagination: p,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Paginated(c, "Users", page)
}

func (h *RBACHandler) GetUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.rbacUC.GetUser(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "User", user)
}

func (h *RBACHandler) UpdateUserStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UserStatusRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.rbacUC.UpdateUserStatus(c.Request().Context(), id, entity.UserStatus(req.Status))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "User status updated", user)
}

func (h *RBACHandler) SyncUserRoles(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req SyncIDsRequest
	if err := bind(c, &req); err != nil {
		return response.HandleAppError(c, err)
	}

	user, err := h.rbacUC.SyncUserRoles(c.Request().Context(), id, req.IDs)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.OK(c, "User roles synced", user)
}

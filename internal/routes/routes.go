package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hospadmin/authz"
)

type replacePermissionsRequest struct {
	PermissionIDs []int `json:"permission_ids"`
}

// Setup mounts the administrative authorization API. Every route requires a
// resolved identity; the roles module's own permissions gate who may read or
// rewrite role assignments.
func Setup(app *fiber.App, svc *authz.Service, issuer *authz.TokenIssuer) {
	api := app.Group("/api/v1", authz.Authenticate(issuer))

	api.Get("/me/permissions", func(c *fiber.Ctx) error {
		identity, _ := authz.IdentityFromCtx(c)
		snapshot, err := svc.PermissionSnapshot(c.Context(), identity)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(snapshot)
	})

	api.Get("/permissions", svc.RequirePermission("view_roles"), func(c *fiber.Ctx) error {
		perms, err := svc.ListPermissionCatalog(c.Context())
		if err != nil {
			return mapError(err)
		}
		return c.JSON(perms)
	})

	api.Get("/roles/:role/permissions", svc.RequirePermission("view_roles"), func(c *fiber.Ctx) error {
		role, err := authz.ParseRole(c.Params("role"))
		if err != nil {
			return mapError(err)
		}
		perms, err := svc.GetRolePermissions(c.Context(), role)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(perms)
	})

	api.Put("/roles/:role/permissions", svc.RequirePermission("edit_roles"), func(c *fiber.Ctx) error {
		role, err := authz.ParseRole(c.Params("role"))
		if err != nil {
			return mapError(err)
		}

		var req replacePermissionsRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if err := svc.ReplacePermissions(c.Context(), role, req.PermissionIDs); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// mapError translates core errors onto HTTP statuses. The core itself never
// decides status codes or user-facing messages.
func mapError(err error) error {
	switch {
	case errors.Is(err, authz.ErrInvalidRole):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, authz.ErrUnknownPermission):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, authz.ErrImmutableRole):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, authz.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

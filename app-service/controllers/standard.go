package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
)

// render adds the request identity, when there is one, to bind before
// rendering name inside the default layout, or inside layout when given.
func render(c *fiber.Ctx, name string, bind fiber.Map, layout ...string) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	if identity, ok := utils.CurrentIdentity(c); ok {
		bind["Identity"] = identity
	}
	return c.Render(name, bind, layout...)
}

// repoError maps repository sentinels onto the standard responses.
func repoError(c *fiber.Ctx, err error, what string) error {
	switch {
	case errors.Is(err, repos.ErrNotFound):
		return utils.StandardNotFound(c, what)
	case errors.Is(err, repos.ErrAlreadyAttached), errors.Is(err, repos.ErrEmailTaken):
		return utils.StandardConflict(c, err)
	case errors.Is(err, repos.ErrInvalid):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		return utils.StandardInternalError(c, err)
	}
}

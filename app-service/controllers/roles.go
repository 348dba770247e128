package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"go.uber.org/fx"
)

type RolesController struct {
	fx.In

	Repo *repos.RoleRepo
}

func RegisterRolesController(r *utils.Router, c RolesController) {
	r.Get("/roles", c.listRoles)
	r.Post("/roles", c.createRole)
	r.Post("/roles/:id/users", c.attachUser)
}

type createRoleRequest struct {
	Name string `json:"name" form:"name" validate:"required,min=1,max=128"`
}

type attachRoleRequest struct {
	UserId int64 `json:"user_id" form:"user_id" validate:"required,gt=0"`
}

func (r *RolesController) listRoles(c *fiber.Ctx) error {
	roles, err := r.Repo.ListWithUsers(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "roles/index", fiber.Map{
		"PageTitle": "Roles",
		"Roles":     roles,
	})
}

func (r *RolesController) createRole(c *fiber.Ctx) error {
	req := new(createRoleRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	role := &userdata.Role{Name: req.Name}
	if err := r.Repo.Create(c.Context(), role); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(role)
}

func (r *RolesController) attachUser(c *fiber.Ctx) error {
	roleId, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	req := new(attachRoleRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	if err := r.Repo.AttachUser(c.Context(), roleId, req.UserId); err != nil {
		return repoError(c, err, "role or user")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"role_id": roleId,
		"user_id": req.UserId,
	})
}

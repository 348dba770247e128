package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"go.uber.org/fx"
)

type AdminController struct {
	fx.In

	Users    *repos.UserRepo
	Projects *repos.ProjectRepo
	Tasks    *repos.TaskRepo
}

func RegisterAdminController(r *utils.Router, config *config.Config, c AdminController) {
	admin := r.Group("/admin", utils.Authenticated(config.LoginPath), utils.AdminOnly())
	admin.Get("/dashboard", c.dashboard)
	admin.Get("/stats", c.stats)
}

func (r *AdminController) dashboard(c *fiber.Ctx) error {
	return render(c, "admin/dashboard", fiber.Map{
		"PageTitle": "Admin",
	})
}

func (r *AdminController) stats(c *fiber.Ctx) error {
	users, err := r.Users.Count(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	projects, err := r.Projects.Count(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	taskCount, err := r.Tasks.Count(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "admin/stats", fiber.Map{
		"PageTitle": "Stats",
		"Users":     users,
		"Projects":  projects,
		"Tasks":     taskCount,
	})
}

package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/config"
	joined_models "github.com/rellab/rellab-server/app-service/models/joined-models"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"go.uber.org/fx"
)

type ProjectsController struct {
	fx.In

	Repo  *repos.ProjectRepo
	Disks *config.Disks
}

var (
	maxLogoBytes int64
	maxLogoKb    int
)

func RegisterProjectsController(r *utils.Router, config *config.Config, c ProjectsController) {
	maxLogoBytes = config.MaxLogoBytes()
	maxLogoKb = config.Uploads.MaxLogoKb

	r.Post("/projects", c.createProject)
	r.Post("/projects/:id/join", utils.Authenticated(config.LoginPath), c.joinProject)
}

type createProjectRequest struct {
	Name string `form:"name" validate:"required,min=1,max=255"`
}

type joinProjectRequest struct {
	StartDate string `json:"start_date" form:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *ProjectsController) createProject(c *fiber.Ctx) error {
	req := new(createProjectRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	project := &userdata.Project{Name: req.Name}
	stored := ""

	logo, err := formFile(c, "logo")
	switch {
	case errors.Is(err, errNoFile):
	case err != nil:
		return utils.StandardCouldNotParse(c)
	default:
		if logo.Size > maxLogoBytes {
			return utils.StandardUnprocessable(c, "logo", fmt.Sprintf("The logo may not be greater than %d kilobytes.", maxLogoKb))
		}

		name := uploadName(logo)
		if name == "" {
			return utils.StandardUnprocessable(c, "logo", "The logo must have a file name.")
		}

		stored, err = putFresh(r.Disks.Private, "projects/"+name, logo)
		if err != nil {
			return utils.StandardInternalError(c, err)
		}
		project.Logo = name
	}

	if err := r.Repo.Create(c.Context(), project); err != nil {
		if stored != "" {
			discardBlob(r.Disks.Private, stored)
		}
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(project)
}

func (r *ProjectsController) joinProject(c *fiber.Ctx) error {
	identity, _ := utils.CurrentIdentity(c)

	projectId, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	req := new(joinProjectRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return utils.StandardCouldNotParse(c)
		}
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	if req.StartDate == "" {
		req.StartDate = time.Now().UTC().Format(joined_models.StartDateLayout)
	}

	edge := &joined_models.ProjectUser{ProjectId: projectId, UserId: identity.UserId, StartDate: req.StartDate}
	if err := r.Repo.AttachUser(c.Context(), edge); err != nil {
		return repoError(c, err, "project")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Success",
	})
}

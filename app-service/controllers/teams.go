package controllers

import (
	"github.com/gofiber/fiber/v2"
	joined_models "github.com/rellab/rellab-server/app-service/models/joined-models"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"go.uber.org/fx"
)

type TeamsController struct {
	fx.In

	Repo        *repos.TeamRepo
	CountryRepo *repos.CountryRepo
}

func RegisterTeamsController(r *utils.Router, c TeamsController) {
	r.Get("/teams", c.listTeams)
	r.Post("/teams", c.createTeam)
	r.Get("/teams/:id", c.showTeam)
	r.Post("/teams/:id/users", c.addMember)
}

type createTeamRequest struct {
	Name      string `json:"name" form:"name" validate:"required,min=1,max=255"`
	Size      int    `json:"size" form:"size" validate:"gte=0"`
	CountryId int64  `json:"country_id" form:"country_id" validate:"omitempty,gt=0"`
}

type addMemberRequest struct {
	UserId   int64  `json:"user_id" form:"user_id" validate:"required,gt=0"`
	Position string `json:"position" form:"position" validate:"required,min=1,max=255"`
}

func (r *TeamsController) listTeams(c *fiber.Ctx) error {
	rosters, err := r.Repo.ListWithMembers(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "teams/index", fiber.Map{
		"PageTitle": "Teams",
		"Rosters":   rosters,
	})
}

func (r *TeamsController) createTeam(c *fiber.Ctx) error {
	req := new(createTeamRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	if req.CountryId != 0 {
		exists, err := r.CountryRepo.Exists(c.Context(), req.CountryId)
		if err != nil {
			return utils.StandardInternalError(c, err)
		}
		if !exists {
			return utils.StandardNotFound(c, "country")
		}
	}

	team := &userdata.Team{Name: req.Name, Size: req.Size, CountryId: req.CountryId}
	if err := r.Repo.Create(c.Context(), team); err != nil {
		return repoError(c, err, "team")
	}

	return c.Status(fiber.StatusCreated).JSON(team)
}

func (r *TeamsController) showTeam(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	team, err := r.Repo.GetTeam(c.Context(), id)
	if err != nil {
		return repoError(c, err, "team")
	}

	return c.Status(fiber.StatusOK).JSON(team)
}

func (r *TeamsController) addMember(c *fiber.Ctx) error {
	teamId, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	req := new(addMemberRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	edge := &joined_models.TeamUser{TeamId: teamId, UserId: req.UserId, Position: req.Position}
	if err := r.Repo.AddMember(c.Context(), edge); err != nil {
		return repoError(c, err, "team or user")
	}

	return c.Status(fiber.StatusCreated).JSON(edge)
}

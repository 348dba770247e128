package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"go.uber.org/fx"
)

type CountriesController struct {
	fx.In

	Repo *repos.CountryRepo
}

func RegisterCountriesController(r *utils.Router, c CountriesController) {
	r.Get("/countries", c.listCountries)
	r.Post("/countries", c.createCountry)
}

type createCountryRequest struct {
	Name string `json:"name" form:"name" validate:"required,min=1,max=255"`
}

func (r *CountriesController) listCountries(c *fiber.Ctx) error {
	countries, err := r.Repo.ListWithTeamSize(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "countries/index", fiber.Map{
		"PageTitle": "Countries",
		"Countries": countries,
	})
}

func (r *CountriesController) createCountry(c *fiber.Ctx) error {
	req := new(createCountryRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	country := &userdata.Country{Name: req.Name}
	if err := r.Repo.Create(c.Context(), country); err != nil {
		return repoError(c, err, "country")
	}

	return c.Status(fiber.StatusCreated).JSON(country)
}

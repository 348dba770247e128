package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"go.uber.org/fx"
)

type UsersController struct {
	fx.In

	Repo *repos.UserRepo
}

func RegisterUsersController(r *utils.Router, c UsersController) {
	r.Get("/users", c.listUsers)
	r.Get("/users/:id", c.showUser)
	r.Get("/user/:name", c.showUserByName)
	r.Get("/table", c.userListing("users/table"))
	r.Get("/rows", c.userListing("users/rows"))
	r.Get("/include", c.userListing("users/include"))
}

// userListing renders every user with the given template.
func (r *UsersController) userListing(view string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := r.Repo.List(c.Context())
		if err != nil {
			return utils.StandardInternalError(c, err)
		}

		return render(c, view, fiber.Map{
			"PageTitle": "Users",
			"Users":     users,
		})
	}
}

func (r *UsersController) listUsers(c *fiber.Ctx) error {
	users, err := r.Repo.ListWithProjects(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "users/index", fiber.Map{
		"PageTitle": "Users",
		"Users":     users,
	})
}

func (r *UsersController) showUser(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	user, err := r.Repo.GetUser(c.Context(), id)
	if err != nil {
		return repoError(c, err, "user")
	}

	comments, err := r.Repo.CommentsThroughTasks(c.Context(), user.Id)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "users/show", fiber.Map{
		"PageTitle": user.Name,
		"User":      user,
		"Comments":  comments,
	})
}

func (r *UsersController) showUserByName(c *fiber.Ctx) error {
	name := c.Params("name")

	user, err := r.Repo.GetUserByName(c.Context(), name)
	if errors.Is(err, repos.ErrNotFound) {
		c.Status(fiber.StatusNotFound)
		return render(c, "users/notfound", fiber.Map{
			"PageTitle": "User not found",
			"Name":      name,
		})
	}
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	comments, err := r.Repo.CommentsThroughTasks(c.Context(), user.Id)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "users/show", fiber.Map{
		"PageTitle": user.Name,
		"User":      user,
		"Comments":  comments,
	})
}

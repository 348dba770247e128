package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rellab/rellab-server/app-service/models/tasks"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

type TasksController struct {
	fx.In

	Repo        *repos.TaskRepo
	CommentRepo *repos.CommentRepo
	Disks       *config.Disks
}

func RegisterTasksController(r *utils.Router, config *config.Config, c TasksController) {
	authenticated := utils.Authenticated(config.LoginPath)

	r.Get("/tasks", c.listTasks)
	r.Post("/tasks", authenticated, c.createTaskJson)
	r.Post("/tasks/:id/comments", c.createComment)

	app := r.Group("/app", authenticated)
	app.Get("/dashboard", c.dashboard)
	app.Get("/tasks", c.manageTasks)
	app.Get("/tasks/create", c.newTaskForm)
	app.Post("/tasks", c.storeTask)
	app.Put("/tasks/:id", c.updateTask)
	app.Delete("/tasks/:id", c.destroyTask)

	api := r.Group("/api/v1/tasks", utils.AuthenticatedApi())
	api.Get("/", c.apiListTasks)
	api.Post("/", c.apiCreateTask)
	api.Put("/:id", c.apiUpdateTask)
	api.Delete("/:id", c.apiDeleteTask)
}

type taskRequest struct {
	Name string `json:"name" form:"name" validate:"required,min=1,max=255"`
}

type commentRequest struct {
	Name    string `json:"name" form:"name" validate:"required,min=1,max=255"`
	Comment string `json:"comment" form:"comment" validate:"required"`
}

func parseTask(c *fiber.Ctx) (*taskRequest, []*utils.ErrorResponse, error) {
	req := new(taskRequest)
	if err := c.BodyParser(req); err != nil {
		return nil, nil, err
	}
	return req, utils.ValidateInput(req), nil
}

func (r *TasksController) listTasks(c *fiber.Ctx) error {
	list, err := r.Repo.List(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "tasks/index", fiber.Map{
		"PageTitle": "Tasks",
		"Tasks":     list,
	})
}

func (r *TasksController) createTaskJson(c *fiber.Ctx) error {
	identity, _ := utils.CurrentIdentity(c)

	req, errs, err := parseTask(c)
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}
	if errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	task := &tasks.Task{Name: req.Name, UsersId: identity.UserId}
	if err := r.Repo.Create(c.Context(), task); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

func (r *TasksController) createComment(c *fiber.Ctx) error {
	taskId, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	req := new(commentRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	comment := &tasks.Comment{TaskId: taskId, Name: req.Name, Body: req.Comment}
	if err := r.CommentRepo.Create(c.Context(), comment); err != nil {
		return repoError(c, err, "task")
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (r *TasksController) dashboard(c *fiber.Ctx) error {
	count, err := r.Repo.Count(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "app/dashboard", fiber.Map{
		"PageTitle": "Dashboard",
		"TaskCount": count,
	})
}

func (r *TasksController) manageTasks(c *fiber.Ctx) error {
	list, err := r.Repo.List(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "app/tasks/index", fiber.Map{
		"PageTitle": "Tasks",
		"Tasks":     list,
	})
}

func (r *TasksController) newTaskForm(c *fiber.Ctx) error {
	return render(c, "app/tasks/create", fiber.Map{
		"PageTitle": "New task",
	})
}

func (r *TasksController) storeTask(c *fiber.Ctx) error {
	identity, _ := utils.CurrentIdentity(c)

	req, errs, err := parseTask(c)
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}
	if errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	if err := r.Repo.Create(c.Context(), &tasks.Task{Name: req.Name, UsersId: identity.UserId}); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Redirect("/app/tasks", fiber.StatusFound)
}

func (r *TasksController) updateTask(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	req, errs, err := parseTask(c)
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}
	if errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	if _, err := r.Repo.Rename(c.Context(), id, req.Name); err != nil {
		return repoError(c, err, "task")
	}

	return c.Redirect("/app/tasks", fiber.StatusFound)
}

func (r *TasksController) destroyTask(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if err := r.deleteTask(c, id); err != nil {
		return repoError(c, err, "task")
	}

	return c.Redirect("/app/tasks", fiber.StatusFound)
}

func (r *TasksController) apiListTasks(c *fiber.Ctx) error {
	list, err := r.Repo.List(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": list,
	})
}

func (r *TasksController) apiCreateTask(c *fiber.Ctx) error {
	identity, _ := utils.CurrentIdentity(c)

	req, errs, err := parseTask(c)
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}
	if errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	task := &tasks.Task{Name: req.Name, UsersId: identity.UserId}
	if err := r.Repo.Create(c.Context(), task); err != nil {
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": task,
	})
}

func (r *TasksController) apiUpdateTask(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	req, errs, err := parseTask(c)
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}
	if errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	task, err := r.Repo.Rename(c.Context(), id, req.Name)
	if err != nil {
		return repoError(c, err, "task")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": task,
	})
}

func (r *TasksController) apiDeleteTask(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if err := r.deleteTask(c, id); err != nil {
		return repoError(c, err, "task")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// deleteTask removes the task with its comments and attachments, then drops
// the attachment blobs. Blob failures are logged only.
func (r *TasksController) deleteTask(c *fiber.Ctx, id int64) error {
	removed, err := r.Repo.Delete(c.Context(), id)
	if err != nil {
		return err
	}

	for _, attachment := range removed {
		if err := r.Disks.Private.Delete(attachment.BlobKey()); err != nil {
			log.Warn().Err(err).Int64("attachment", attachment.Id).Msg("Could not delete attachment blob")
		}
	}

	return nil
}

package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rellab/rellab-server/app-service/models/tasks"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"go.uber.org/fx"
)

type AttachmentsController struct {
	fx.In

	Repo  *repos.AttachmentRepo
	Disks *config.Disks
}

func RegisterAttachmentsController(r *utils.Router, c AttachmentsController) {
	r.Get("/attachments", c.listAttachments)
	r.Get("/tasks/:id/attachments", c.listFor(tasks.OwnerTask))
	r.Post("/tasks/:id/attachments", c.attachTo(tasks.OwnerTask))
	r.Get("/comments/:id/attachments", c.listFor(tasks.OwnerComment))
	r.Post("/comments/:id/attachments", c.attachTo(tasks.OwnerComment))
}

func (r *AttachmentsController) listAttachments(c *fiber.Ctx) error {
	attachments, err := r.Repo.List(c.Context())
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	return render(c, "attachments/index", fiber.Map{
		"PageTitle":   "Attachments",
		"Attachments": attachments,
	})
}

func (r *AttachmentsController) listFor(kind tasks.OwnerKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerId, err := utils.ParamId(c, "id")
		if err != nil {
			return utils.StandardCouldNotParse(c)
		}

		attachments, err := r.Repo.ListForOwner(c.Context(), kind, ownerId)
		if err != nil {
			return repoError(c, err, fmt.Sprintf("%s %d", kind.Label(), ownerId))
		}

		return c.Status(fiber.StatusOK).JSON(attachments)
	}
}

func (r *AttachmentsController) attachTo(kind tasks.OwnerKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ownerId, err := utils.ParamId(c, "id")
		if err != nil {
			return utils.StandardCouldNotParse(c)
		}

		file, err := formFile(c, "file")
		if errors.Is(err, errNoFile) {
			return utils.StandardUnprocessable(c, "file", "The file field is required.")
		}
		if err != nil {
			return utils.StandardCouldNotParse(c)
		}

		name := uploadName(file)
		if name == "" {
			return utils.StandardUnprocessable(c, "file", "The file must have a file name.")
		}

		attachment := &tasks.Attachment{Filename: name, AttachableId: ownerId, AttachableType: kind}
		err = r.Repo.Create(c.Context(), attachment, func(key string) error {
			return r.Disks.Private.PutUpload(key, file)
		})
		if err != nil {
			if attachment.Id != 0 {
				discardBlob(r.Disks.Private, attachment.BlobKey())
			}
			return repoError(c, err, fmt.Sprintf("%s %d", kind.Label(), ownerId))
		}

		return c.Status(fiber.StatusCreated).JSON(attachment)
	}
}

package controllers

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rellab/rellab-server/app-service/models/uploads"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

type HousesController struct {
	fx.In

	Repo       *repos.HouseRepo
	OfficeRepo *repos.OfficeRepo
	Disks      *config.Disks
}

func RegisterHousesController(r *utils.Router, config *config.Config, c HousesController) {
	r.Post("/houses", c.createHouse)
	r.Put("/houses/:id", c.updateHouse)
	r.Get("/houses/download/:id", c.downloadHouse)

	r.Post("/offices", c.createOffice)
	r.Get("/offices/:id", c.showOffice)
	r.Static(config.Storage.PublicUrl, config.Storage.PublicRoot)
}

type houseRequest struct {
	Name string `form:"name" validate:"required,min=1,max=255"`
}

// storeHousePhoto writes the uploaded photo under a fresh random name.
func (r *HousesController) storeHousePhoto(c *fiber.Ctx) (string, error) {
	photo, err := formFile(c, "photo")
	if err != nil {
		return "", err
	}

	key := "houses/" + uuid.NewString() + filepath.Ext(uploadName(photo))
	if err := r.Disks.Private.PutUpload(key, photo); err != nil {
		return "", err
	}

	return key, nil
}

func (r *HousesController) createHouse(c *fiber.Ctx) error {
	req := new(houseRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	key, err := r.storeHousePhoto(c)
	if errors.Is(err, errNoFile) {
		return utils.StandardUnprocessable(c, "photo", "The photo field is required.")
	}
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	house := &uploads.House{Name: req.Name, Photo: key}
	if err := r.Repo.Create(c.Context(), house); err != nil {
		discardBlob(r.Disks.Private, key)
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(house)
}

// updateHouse stores the new photo, points the row at it and only then
// removes the previous blob.
func (r *HousesController) updateHouse(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	house, err := r.Repo.GetHouse(c.Context(), id)
	if err != nil {
		return repoError(c, err, "house")
	}

	req := new(houseRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if req.Name != "" {
		house.Name = req.Name
	}

	previous := house.Photo

	key, err := r.storeHousePhoto(c)
	switch {
	case errors.Is(err, errNoFile):
		key = previous
	case err != nil:
		return utils.StandardInternalError(c, err)
	}

	house.Photo = key
	if err := r.Repo.Update(c.Context(), house); err != nil {
		if key != previous {
			discardBlob(r.Disks.Private, key)
		}
		return repoError(c, err, "house")
	}

	if previous != "" && previous != key {
		if err := r.Disks.Private.Delete(previous); err != nil {
			log.Warn().Err(err).Str("key", previous).Int64("house", house.Id).Msg("Could not delete replaced house photo")
		}
	}

	return c.Status(fiber.StatusOK).JSON(house)
}

func (r *HousesController) downloadHouse(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	house, err := r.Repo.GetHouse(c.Context(), id)
	if err != nil {
		return repoError(c, err, "house")
	}

	if house.Photo == "" {
		return utils.StandardNotFound(c, "photo")
	}

	photo, err := r.Disks.Private.Open(house.Photo)
	if errors.Is(err, os.ErrNotExist) {
		return utils.StandardNotFound(c, "photo")
	}
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	info, err := photo.Stat()
	if err != nil {
		photo.Close()
		return utils.StandardInternalError(c, err)
	}

	c.Attachment(house.DownloadName())
	return c.SendStream(photo, int(info.Size()))
}

func (r *HousesController) createOffice(c *fiber.Ctx) error {
	req := new(houseRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	office := &uploads.Office{Name: req.Name}
	stored := ""

	photo, err := formFile(c, "photo")
	switch {
	case errors.Is(err, errNoFile):
	case err != nil:
		return utils.StandardCouldNotParse(c)
	default:
		name := uploadName(photo)
		if name == "" {
			return utils.StandardUnprocessable(c, "photo", "The photo must have a file name.")
		}

		key := "offices/" + name
		if stored, err = putFresh(r.Disks.Public, key, photo); err != nil {
			return utils.StandardInternalError(c, err)
		}
		office.Photo = key
	}

	if err := r.OfficeRepo.Create(c.Context(), office); err != nil {
		if stored != "" {
			discardBlob(r.Disks.Public, stored)
		}
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(office)
}

func (r *HousesController) showOffice(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	office, err := r.OfficeRepo.GetOffice(c.Context(), id)
	if err != nil {
		return repoError(c, err, "office")
	}

	photoUrl := ""
	if office.Photo != "" {
		photoUrl = r.Disks.Public.Url(office.Photo)
	}

	return render(c, "offices/show", fiber.Map{
		"PageTitle": office.Name,
		"Office":    office,
		"PhotoUrl":  photoUrl,
	})
}

package controllers

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rellab/rellab-server/app-service/models/uploads"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"go.uber.org/fx"
)

type ShopsController struct {
	fx.In

	Repo        *repos.ShopRepo
	CompanyRepo *repos.CompanyRepo
	Disks       *config.Disks
}

func RegisterShopsController(r *utils.Router, c ShopsController) {
	r.Post("/shops", c.createShop)
	r.Get("/shops/:id", c.showShop)

	r.Post("/companies", c.createCompany)
	r.Get("/companies/:id", c.showCompany)
}

var errNotAnImage = errors.New("not an image")

// resizeShopPhoto decodes an uploaded image and re-encodes it as a square of
// uploads.ShopPhotoSize pixels in the format its file name implies.
func resizeShopPhoto(name string, src []byte) (*bytes.Buffer, error) {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNotAnImage, err)
	}

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNotAnImage, err)
	}

	resized := imaging.Resize(img, uploads.ShopPhotoSize, uploads.ShopPhotoSize, imaging.Lanczos)

	out := new(bytes.Buffer)
	if err := imaging.Encode(out, resized, format); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ShopsController) createShop(c *fiber.Ctx) error {
	req := new(houseRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	photo, err := formFile(c, "photo")
	if errors.Is(err, errNoFile) {
		return utils.StandardUnprocessable(c, "photo", "The photo field is required.")
	}
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	name := uploadName(photo)
	if name == "" {
		return utils.StandardUnprocessable(c, "photo", "The photo must have a file name.")
	}

	raw, err := readUpload(photo)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	resized, err := resizeShopPhoto(name, raw)
	if errors.Is(err, errNotAnImage) {
		return utils.StandardUnprocessable(c, "photo", "The photo must be an image.")
	}
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	key := uploads.ShopPhotoKey(name)
	existed := r.Disks.Private.Exists(key)
	if err := r.Disks.Private.Put(key, resized); err != nil {
		return utils.StandardInternalError(c, err)
	}

	shop := &uploads.Shop{Name: req.Name, Photo: key}
	if err := r.Repo.Create(c.Context(), shop); err != nil {
		if !existed {
			discardBlob(r.Disks.Private, key)
		}
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(shop)
}

func (r *ShopsController) showShop(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	shop, err := r.Repo.GetShop(c.Context(), id)
	if err != nil {
		return repoError(c, err, "shop")
	}

	return c.Status(fiber.StatusOK).JSON(shop)
}

func (r *ShopsController) createCompany(c *fiber.Ctx) error {
	req := new(houseRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	company := &uploads.Company{Name: req.Name}

	photo, err := formFile(c, "photo")
	switch {
	case errors.Is(err, errNoFile):
	case err != nil:
		return utils.StandardCouldNotParse(c)
	default:
		company.Photo = uploadName(photo)
		if company.Photo == "" {
			return utils.StandardUnprocessable(c, "photo", "The photo must have a file name.")
		}
	}

	err = r.CompanyRepo.Create(c.Context(), company, func(key string) error {
		return r.Disks.Public.PutUpload(key, photo)
	})
	if err != nil {
		if company.Id != 0 && company.Photo != "" {
			discardBlob(r.Disks.Public, company.MediaKey())
		}
		return utils.StandardInternalError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(company)
}

func (r *ShopsController) showCompany(c *fiber.Ctx) error {
	id, err := utils.ParamId(c, "id")
	if err != nil {
		return utils.StandardCouldNotParse(c)
	}

	company, err := r.CompanyRepo.GetCompany(c.Context(), id)
	if err != nil {
		return repoError(c, err, "company")
	}

	photoUrl := ""
	if key := company.MediaKey(); key != "" {
		photoUrl = r.Disks.Public.Url(key)
	}

	return render(c, "companies/show", fiber.Map{
		"PageTitle": company.Name,
		"Company":   company,
		"PhotoUrl":  photoUrl,
	})
}

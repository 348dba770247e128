package controllers

import (
	"errors"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/storage-go"
	"github.com/rs/zerolog/log"
)

var errNoFile = errors.New("no file uploaded")

// formFile returns the first file sent under field, or errNoFile.
func formFile(c *fiber.Ctx, field string) (*multipart.FileHeader, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, errNoFile
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	files := form.File[field]
	if len(files) == 0 {
		return nil, errNoFile
	}

	return files[0], nil
}

// uploadName strips any client supplied directories from a file name. It
// returns "" for names that are unusable as a blob key segment.
func uploadName(fh *multipart.FileHeader) string {
	name := path.Base(strings.ReplaceAll(fh.Filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// discardBlob removes a blob whose row was never written. Failures are only
// logged; the request already failed.
func discardBlob(disk *storage.Disk, key string) {
	if err := disk.Delete(key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Could not remove orphaned blob")
	}
}

// putFresh stores fh at key and reports the key when this call created the
// blob, or "" when it replaced one that another row may still reference.
func putFresh(disk *storage.Disk, key string, fh *multipart.FileHeader) (string, error) {
	existed := disk.Exists(key)
	if err := disk.PutUpload(key, fh); err != nil {
		return "", err
	}
	if existed {
		return "", nil
	}
	return key, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}

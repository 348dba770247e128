package uploads

import (
	"path"

	"github.com/uptrace/bun"
)

// House photos live on the private disk; Photo is the blob key.
type House struct {
	bun.BaseModel `bun:"houses"`

	Id    int64  `bun:",pk,autoincrement" json:"id"`
	Name  string `bun:",notnull" json:"name"`
	Photo string `bun:",nullzero" json:"photo,omitempty"`
}

// DownloadName is the file name offered to clients downloading the photo.
func (h *House) DownloadName() string {
	return path.Base(h.Photo)
}

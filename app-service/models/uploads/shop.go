package uploads

import "github.com/uptrace/bun"

// ShopPhotoSize is the edge length, in pixels, of stored shop photos.
const ShopPhotoSize = 500

// Shop photos are resized to ShopPhotoSize square before they are stored on
// the private disk; Photo is the blob key.
type Shop struct {
	bun.BaseModel `bun:"shops"`

	Id    int64  `bun:",pk,autoincrement" json:"id"`
	Name  string `bun:",notnull" json:"name"`
	Photo string `bun:",nullzero" json:"photo,omitempty"`
}

func ShopPhotoKey(filename string) string {
	return "shops/resized-" + filename
}

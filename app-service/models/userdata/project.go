package userdata

import "github.com/uptrace/bun"

type Project struct {
	bun.BaseModel `bun:"projects"`

	Id   int64  `bun:",pk,autoincrement" json:"id"`
	Name string `bun:",notnull" json:"name"`
	// Original filename of the uploaded logo.
	Logo string `bun:",nullzero" json:"logo,omitempty"`
}

package uploads

import "github.com/uptrace/bun"

// Office photos live on the public disk and are served by URL.
type Office struct {
	bun.BaseModel `bun:"offices"`

	Id    int64  `bun:",pk,autoincrement" json:"id"`
	Name  string `bun:",notnull" json:"name"`
	Photo string `bun:",nullzero" json:"photo,omitempty"`
}

package uploads

import (
	"fmt"

	"github.com/uptrace/bun"
)

// Company keeps its photo in a media folder named after the company id on
// the public disk. Photo holds the file name only.
type Company struct {
	bun.BaseModel `bun:"companies"`

	Id    int64  `bun:",pk,autoincrement" json:"id"`
	Name  string `bun:",notnull" json:"name"`
	Photo string `bun:",nullzero" json:"photo,omitempty"`
}

// MediaKey is the public blob key of the photo, "" without one.
func (c *Company) MediaKey() string {
	if c.Photo == "" {
		return ""
	}
	return fmt.Sprintf("%d/%s", c.Id, c.Photo)
}

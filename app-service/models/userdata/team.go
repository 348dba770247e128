package userdata

import "github.com/uptrace/bun"

type Team struct {
	bun.BaseModel `bun:"teams"`

	Id        int64    `bun:",pk,autoincrement" json:"id"`
	Name      string   `bun:",notnull" json:"name"`
	Size      int      `bun:",notnull,default:0" json:"size"`
	CountryId int64    `bun:",nullzero" json:"country_id,omitempty"`
	Country   *Country `bun:"rel:belongs-to,join:country_id=id" json:"country,omitempty"`
}

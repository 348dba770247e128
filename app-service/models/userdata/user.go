package userdata

import "github.com/uptrace/bun"

type User struct {
	bun.BaseModel `bun:"users"`

	Id           int64  `bun:",pk,autoincrement" json:"id"`
	Name         string `bun:",notnull" json:"name"`
	Email        string `bun:",notnull,unique" json:"email"`
	PasswordHash string `bun:",notnull" json:"-"`
	IsAdmin      bool   `bun:",notnull,default:false" json:"is_admin"`
}

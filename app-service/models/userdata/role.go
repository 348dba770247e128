package userdata

import "github.com/uptrace/bun"

type Role struct {
	bun.BaseModel `bun:"roles"`

	Id    int64  `bun:",pk,autoincrement" json:"id"`
	Name  string `bun:",notnull" json:"name"`
	Users []User `bun:"m2m:users_roles,join:Role=User" json:"users,omitempty"`
}

package joined_models

import (
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/uptrace/bun"
)

type UserRole struct {
	bun.BaseModel `bun:"users_roles"`

	UserId int64          `bun:",pk" json:"user_id"`
	User   *userdata.User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	RoleId int64          `bun:",pk" json:"role_id"`
	Role   *userdata.Role `bun:"rel:belongs-to,join:role_id=id" json:"role,omitempty"`
}

package tasks

import (
	"time"

	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/uptrace/bun"
)

type Task struct {
	bun.BaseModel `bun:"tasks"`

	Id        int64          `bun:",pk,autoincrement" json:"id"`
	Name      string         `bun:",notnull" json:"name"`
	UsersId   int64          `bun:"users_id,nullzero" json:"users_id,omitempty"`
	User      *userdata.User `bun:"rel:belongs-to,join:users_id=id" json:"user,omitempty"`
	Comments  []*Comment     `bun:"rel:has-many,join:id=task_id" json:"comments,omitempty"`
	CreatedAt time.Time      `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time      `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Owner returns the owning user, or nil for tasks created without one.
func (t *Task) Owner() *userdata.User {
	if t.UsersId == 0 || t.User == nil || t.User.Id == 0 {
		return nil
	}
	return t.User
}

func (t *Task) OwnerName() string {
	if owner := t.Owner(); owner != nil {
		return owner.Name
	}
	return ""
}

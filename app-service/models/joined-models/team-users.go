package joined_models

import (
	"time"

	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/uptrace/bun"
)

const JoinedAtLayout = "2006-01-02 15:04:05"

type TeamUser struct {
	bun.BaseModel `bun:"team_user"`

	TeamId    int64          `bun:",pk" json:"team_id"`
	Team      *userdata.Team `bun:"rel:belongs-to,join:team_id=id" json:"team,omitempty"`
	UserId    int64          `bun:",pk" json:"user_id"`
	User      *userdata.User `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	Position  string         `bun:",notnull" json:"position"`
	CreatedAt time.Time      `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
}

func (t *TeamUser) JoinedAt() string {
	return t.CreatedAt.UTC().Format(JoinedAtLayout)
}

func (t *TeamUser) MemberName() string {
	if t.User == nil {
		return ""
	}
	return t.User.Name
}

package joined_models

import (
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/uptrace/bun"
)

// StartDateLayout is the format project_user.start_date is stored and shown in.
const StartDateLayout = "2006-01-02"

type ProjectUser struct {
	bun.BaseModel `bun:"project_user"`

	ProjectId int64             `bun:",pk" json:"project_id"`
	Project   *userdata.Project `bun:"rel:belongs-to,join:project_id=id" json:"project,omitempty"`
	UserId    int64             `bun:",pk" json:"user_id"`
	User      *userdata.User    `bun:"rel:belongs-to,join:user_id=id" json:"user,omitempty"`
	StartDate string            `bun:",notnull" json:"start_date"`
}

func (p *ProjectUser) ProjectName() string {
	if p.Project == nil {
		return ""
	}
	return p.Project.Name
}

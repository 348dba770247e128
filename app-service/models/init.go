package models

import (
	joined_models "github.com/rellab/rellab-server/app-service/models/joined-models"
	"github.com/uptrace/bun"
)

func InitModelRegistrations(db *bun.DB) {
	db.RegisterModel((*joined_models.TeamUser)(nil))
	db.RegisterModel((*joined_models.ProjectUser)(nil))
	db.RegisterModel((*joined_models.UserRole)(nil))
}

package userdata

import (
	"strconv"

	"github.com/uptrace/bun"
)

type Country struct {
	bun.BaseModel `bun:"countries"`

	Id    int64   `bun:",pk,autoincrement" json:"id"`
	Name  string  `bun:",notnull" json:"name"`
	Teams []*Team `bun:"rel:has-many,join:id=country_id" json:"teams,omitempty"`

	// Derived from Teams after loading, never persisted.
	TeamsAvgSize *float64 `bun:"-" json:"teams_avg_size"`
}

// AverageTeamSize returns the mean size of teams, or nil for an empty slice.
func AverageTeamSize(teams []*Team) *float64 {
	if len(teams) == 0 {
		return nil
	}

	total := 0
	for _, team := range teams {
		total += team.Size
	}

	avg := float64(total) / float64(len(teams))
	return &avg
}

// TeamsAvgSizeLabel formats the average for display, empty when there is none.
func (c *Country) TeamsAvgSizeLabel() string {
	if c.TeamsAvgSize == nil {
		return ""
	}
	return strconv.FormatFloat(*c.TeamsAvgSize, 'f', -1, 64)
}

package tasks

import "github.com/uptrace/bun"

type Comment struct {
	bun.BaseModel `bun:"comments"`

	Id     int64  `bun:",pk,autoincrement" json:"id"`
	TaskId int64  `bun:",notnull" json:"task_id"`
	Task   *Task  `bun:"rel:belongs-to,join:task_id=id" json:"task,omitempty"`
	Name   string `bun:",notnull" json:"name"`
	Body   string `bun:"comment,notnull" json:"comment"`
}

package tasks

import (
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

var ErrUnknownOwnerKind = errors.New("unknown attachment owner kind")

// OwnerKind discriminates the table an attachment points into.
type OwnerKind string

const (
	OwnerTask    OwnerKind = "Task"
	OwnerComment OwnerKind = "Comment"
)

func ParseOwnerKind(value string) (OwnerKind, error) {
	switch OwnerKind(value) {
	case OwnerTask:
		return OwnerTask, nil
	case OwnerComment:
		return OwnerComment, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOwnerKind, value)
}

func (k OwnerKind) Label() string {
	return string(k)
}

// Owner is the resolved target of an attachment. Exactly one of Task or
// Comment matches Kind; it stays nil when the owner row is gone.
type Owner struct {
	Kind    OwnerKind `json:"kind"`
	Task    *Task     `json:"task,omitempty"`
	Comment *Comment  `json:"comment,omitempty"`
}

func (o Owner) Id() int64 {
	switch o.Kind {
	case OwnerTask:
		if o.Task != nil {
			return o.Task.Id
		}
	case OwnerComment:
		if o.Comment != nil {
			return o.Comment.Id
		}
	}
	return 0
}

func (o Owner) Name() string {
	switch o.Kind {
	case OwnerTask:
		if o.Task != nil {
			return o.Task.Name
		}
	case OwnerComment:
		if o.Comment != nil {
			return o.Comment.Name
		}
	}
	return ""
}

type Attachment struct {
	bun.BaseModel `bun:"attachments"`

	Id             int64     `bun:",pk,autoincrement" json:"id"`
	Filename       string    `bun:",notnull" json:"filename"`
	AttachableId   int64     `bun:",notnull" json:"attachable_id"`
	AttachableType OwnerKind `bun:",notnull" json:"attachable_type"`

	Owner Owner `bun:"-" json:"owner"`
}

// BlobKey is where the attachment file lives on the private disk. The row id
// keeps two uploads of the same file name to one owner apart, so it is only
// meaningful once the row is inserted.
func (a *Attachment) BlobKey() string {
	return fmt.Sprintf("attachments/%s/%d/%d/%s", a.AttachableType, a.AttachableId, a.Id, a.Filename)
}

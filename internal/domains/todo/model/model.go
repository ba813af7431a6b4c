package model

import (
	"fmt"
	"strings"
	"todoapp/shared/model"
)

const (
	TableName  = "todos"
	EntityName = "todo"

	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldIsCompleted = "is_completed"
	FieldPriority    = "priority"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

const (
	MaxTitleLength       = 255
	MaxDescriptionLength = 1000
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"

	DefaultPriority = PriorityMedium
)

// Rank orders priorities from low to high. Unknown values rank with low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Priorities lists every accepted priority from low to high.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// PriorityRankExpression ranks the priority column the same way Rank does, for ORDER BY.
var PriorityRankExpression = rankExpression()

func rankExpression() string {
	var sb strings.Builder

	sb.WriteString("CASE " + TableName + "." + FieldPriority)

	for i := len(Priorities) - 1; i > 0; i-- {
		fmt.Fprintf(&sb, " WHEN '%s' THEN %d", Priorities[i], Priorities[i].Rank())
	}

	fmt.Fprintf(&sb, " ELSE %d END", Priorities[0].Rank())

	return sb.String()
}

type Todo struct {
	ID          int64    `db:"id" readonly:"true"`
	Title       string   `db:"title"`
	Description *string  `db:"description"`
	IsCompleted bool     `db:"is_completed"`
	Priority    Priority `db:"priority"`
	model.Metadata
}

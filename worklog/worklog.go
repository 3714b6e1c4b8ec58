package worklog

import (
	"time"

	"sheetmap/mapping"
)

// Entry is the normalized worklog record produced by imports.
type Entry struct {
	ID            int64
	StartDateTime time.Time
	EndDateTime   time.Time
	Billable      int
	Description   string
	Project       string
	Activity      string
	Skill         string
	SourceFormat  string
	SourceProfile string
	SourceFile    string
}

// Field handles for the columns an import can fill. ID and the Source*
// fields are set by the importer, not read from rows.
var (
	StartDateTime = mapping.NewField("StartDateTime", func(e *Entry) *time.Time { return &e.StartDateTime })
	EndDateTime   = mapping.NewField("EndDateTime", func(e *Entry) *time.Time { return &e.EndDateTime })
	Billable      = mapping.NewField("Billable", func(e *Entry) *int { return &e.Billable })
	Description   = mapping.NewField("Description", func(e *Entry) *string { return &e.Description })
	Project       = mapping.NewField("Project", func(e *Entry) *string { return &e.Project })
	Activity      = mapping.NewField("Activity", func(e *Entry) *string { return &e.Activity })
	Skill         = mapping.NewField("Skill", func(e *Entry) *string { return &e.Skill })
)

func (*Entry) Fields() []mapping.Field[Entry] {
	return []mapping.Field[Entry]{
		StartDateTime,
		EndDateTime,
		Billable,
		Description,
		Project,
		Activity,
		Skill,
	}
}

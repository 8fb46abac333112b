package model

import "time"

const (
	NoteSourceManual  = "manual"
	NoteSourceAI      = "ai"
	NoteSourceHoliday = "holiday"
)

type CalendarNote struct {
	DTO
	NoteDate    time.Time `gorm:"type:date;not null;index" json:"noteDate"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Source      string    `gorm:"size:10;not null" json:"source"`
	CreatedBy   *uint     `json:"createdBy"`
}

type CreateCalendarNoteInput struct {
	NoteDate    string `json:"noteDate" validate:"required,datetime=2006-01-02"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=4000"`
}

type UpdateCalendarNoteInput struct {
	NoteDate    *string `json:"noteDate" validate:"omitempty,datetime=2006-01-02"`
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
}

type GenerateNotesInput struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
	// Context is free text about the venue passed to the model, e.g. "sports pub with beer garden".
	Context string `json:"context" validate:"omitempty,max=500"`
}

// NoteSuggestion is one entry of the generated JSON document.
type NoteSuggestion struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type FilterCalendarNote struct {
	DateRange
	Source string `query:"source"`
}

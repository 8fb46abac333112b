package helper

import (
	"strings"
	"testing"
	"unicode/utf8"

	"venue_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNoteSuggestions(t *testing.T) {
	raw := "```json\n{\"notes\":[{\"date\":\"2026-06-14\",\"title\":\"World Cup opener\",\"description\":\"Extra bar staff\"}]}\n```"
	notes, err := ParseNoteSuggestions(raw)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "World Cup opener", notes[0].Title)

	_, err = ParseNoteSuggestions("not json")
	assert.Error(t, err)
}

func TestAcceptSuggestions(t *testing.T) {
	from, to := day("2026-06-01"), day("2026-06-30")
	existing := []model.CalendarNote{{NoteDate: day("2026-06-21"), Title: "Father's Day"}}
	suggestions := []model.NoteSuggestion{
		{Date: "2026-06-21", Title: "father's day ", Description: "dup of stored note"},
		{Date: "2026-06-14", Title: "Match night", Description: "Screens on"},
		{Date: "2026-06-14", Title: "MATCH NIGHT", Description: "dup within batch"},
		{Date: "2026-07-01", Title: "Out of range"},
		{Date: "14/06/2026", Title: "Bad date"},
		{Date: "2026-06-20", Title: "   "},
		{Date: "2026-06-05", Title: strings.Repeat("x", 250)},
		{Date: "2026-06-06", Title: strings.Repeat("a", 199) + "éé"},
	}

	got := AcceptSuggestions(suggestions, from, to, existing, model.NoteSourceAI)
	require.Len(t, got, 3)
	assert.Equal(t, "Match night", got[0].Title)
	assert.Equal(t, model.NoteSourceAI, got[0].Source)
	assert.Len(t, got[1].Title, 200)

	accented := got[2].Title
	assert.True(t, utf8.ValidString(accented))
	assert.Equal(t, 200, utf8.RuneCountInString(accented))
	assert.True(t, strings.HasSuffix(accented, "aé"))
}

func TestHolidayNotes(t *testing.T) {
	holidays := HolidaysBetween(day("2026-12-24"), day("2026-12-25"))
	notes := HolidayNotes(holidays)
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0].Description, "Trading opportunity")
	assert.Contains(t, notes[1].Description, "Bank holiday")
	assert.Equal(t, "2026-12-25", notes[1].Date)
}

func TestBuildNotePrompt(t *testing.T) {
	prompt := buildNotePrompt(day("2026-12-01"), day("2026-12-31"),
		[]model.Holiday{{Name: "Christmas Day", Date: day("2026-12-25"), Type: model.HolidayBank}}, "Riverside pub")
	assert.Contains(t, prompt, "between 2026-12-01 and 2026-12-31")
	assert.Contains(t, prompt, "- 2026-12-25: Christmas Day (bank)")
	assert.Contains(t, prompt, "Riverside pub")

	_, err := NewGeminiNoteGenerator(t.Context(), "", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

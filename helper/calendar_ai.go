package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"venue_manager/model"
	"venue_manager/utils"

	"google.golang.org/genai"
)

// MaxCalendarRangeDays bounds one generation request.
const (
	MaxCalendarRangeDays = 366
	maxNoteTitle         = 200
)

// NoteGenerator proposes calendar notes for a date range.
type NoteGenerator interface {
	Suggest(ctx context.Context, from, to time.Time, holidays []model.Holiday, venueContext string) ([]model.NoteSuggestion, error)
}

type GeminiNoteGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiNoteGenerator(ctx context.Context, apiKey, modelName string) (*GeminiNoteGenerator, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiNoteGenerator{client: client, model: modelName}, nil
}

var noteSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"notes": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date":        {Type: genai.TypeString, Description: "YYYY-MM-DD"},
					"title":       {Type: genai.TypeString},
					"description": {Type: genai.TypeString},
				},
				Required: []string{"date", "title", "description"},
			},
		},
	},
	Required: []string{"notes"},
}

func buildNotePrompt(from, to time.Time, holidays []model.Holiday, venueContext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest planning notes for a UK hospitality venue between %s and %s inclusive.\n",
		from.Format(time.DateOnly), to.Format(time.DateOnly))
	if venueContext != "" {
		fmt.Fprintf(&b, "About the venue: %s\n", venueContext)
	}
	if len(holidays) > 0 {
		b.WriteString("Known dates in range (already computed, use these exact dates):\n")
		for _, h := range holidays {
			fmt.Fprintf(&b, "- %s: %s (%s)\n", h.Date.Format(time.DateOnly), h.Name, h.Type)
		}
	}
	b.WriteString("Add sporting fixtures, school holidays and local trade opportunities worth preparing for. ")
	b.WriteString("Each description says what to prepare: staffing, stock, promotions. Only use dates inside the range.")
	return b.String()
}

func (g *GeminiNoteGenerator) Suggest(ctx context.Context, from, to time.Time, holidays []model.Holiday, venueContext string) ([]model.NoteSuggestion, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(buildNotePrompt(from, to, holidays, venueContext), genai.RoleUser),
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   noteSchema,
		Temperature:      genai.Ptr[float32](0.4),
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	return ParseNoteSuggestions(result.Text())
}

// ParseNoteSuggestions decodes the {"notes":[...]} document.
func ParseNoteSuggestions(raw string) ([]model.NoteSuggestion, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimSuffix(strings.TrimPrefix(raw, "```"), "```")
	var doc struct {
		Notes []model.NoteSuggestion `json:"notes"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &doc); err != nil {
		return nil, fmt.Errorf("decode note suggestions: %w", err)
	}
	return doc.Notes, nil
}

func noteKey(date time.Time, title string) string {
	return date.Format(time.DateOnly) + "|" + strings.ToLower(strings.TrimSpace(title))
}

// HolidayNotes proposes one note per holiday.
func HolidayNotes(holidays []model.Holiday) []model.NoteSuggestion {
	out := make([]model.NoteSuggestion, 0, len(holidays))
	for _, h := range holidays {
		desc := "Bank holiday: check opening hours and staffing."
		if h.Type == model.HolidayObservance {
			desc = "Trading opportunity: plan promotions and stock."
		}
		out = append(out, model.NoteSuggestion{Date: h.Date.Format(time.DateOnly), Title: h.Name, Description: desc})
	}
	return out
}

// AcceptSuggestions turns suggestions into notes, dropping unparseable dates,
// dates outside [from, to], blank titles and anything already in existing
// (same date and title, case-insensitive) or repeated within the batch.
func AcceptSuggestions(suggestions []model.NoteSuggestion, from, to time.Time, existing []model.CalendarNote, source string) []model.CalendarNote {
	seen := make(map[string]bool, len(existing))
	for _, n := range existing {
		seen[noteKey(DateOnly(n.NoteDate), n.Title)] = true
	}
	from, to = DateOnly(from), DateOnly(to)

	var out []model.CalendarNote
	for _, s := range suggestions {
		d, err := ParseDate(strings.TrimSpace(s.Date))
		if err != nil || d.Before(from) || d.After(to) {
			continue
		}
		title := strings.TrimSpace(s.Title)
		if title == "" {
			continue
		}
		title = utils.Truncate(title, maxNoteTitle)
		key := noteKey(d, title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, model.CalendarNote{
			NoteDate:    d,
			Title:       title,
			Description: strings.TrimSpace(s.Description),
			Source:      source,
		})
	}
	return out
}

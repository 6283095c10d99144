package planner

import (
	"github.com/sandeepkv93/daystream/internal/model"
)

const systemPromptTemplate = `
You are an expert daily planner and productivity assistant.
The user will provide a brain dump of tasks, goals, or a rough plan for their day (%s).
Your goal is to organize this into a structured, realistic daily schedule.

Rules:
1. Approximate realistic start times if not specified (default to starting around 09:00 if undefined).
2. Keep durations realistic.
3. Categorize each task as one of: Work, Personal, Health, Learning, Other.
4. Ensure times are in HH:MM 24-hour format.
5. Do not overlap tasks unless explicitly implied.
6. Return a JSON array.
`

// PromptDate renders d the way the planner prompt expects, for example
// "Friday, March 1, 2024".
func PromptDate(d model.Date) string {
	return d.Time().Format("Monday, January 2, 2006")
}

func responseSchema() map[string]any {
	categories := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		categories = append(categories, string(c))
	}
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"title":           map[string]any{"type": "STRING"},
				"description":     map[string]any{"type": "STRING"},
				"startTime":       map[string]any{"type": "STRING", "description": "HH:MM format"},
				"durationMinutes": map[string]any{"type": "INTEGER"},
				"category":        map[string]any{"type": "STRING", "enum": categories},
			},
			"required": []string{"title", "startTime", "durationMinutes", "category"},
		},
	}
}

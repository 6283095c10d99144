package update

import (
	"strings"

	"github.com/sandeepkv93/daystream/internal/model"
	"github.com/sandeepkv93/daystream/internal/views"
)

func progressBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func taskItem(t model.Task, selected bool) views.TaskItemData {
	return views.TaskItemData{
		ID:        t.ID,
		Title:     t.Title,
		Start:     t.StartTime.String(),
		End:       t.EndTime().String(),
		Duration:  t.DurationMinutes,
		Category:  string(t.Category),
		Completed: t.IsCompleted,
		Selected:  selected,
		InSeries:  t.SeriesID != "",
	}
}

func previews(tasks []model.Task, n int) []string {
	out := make([]string, 0, n)
	for i, t := range tasks {
		if i == n {
			break
		}
		out = append(out, t.StartTime.String()+" "+truncate(t.Title, 14))
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

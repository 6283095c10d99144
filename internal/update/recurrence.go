package update

import (
	"fmt"

	"github.com/sandeepkv93/daystream/internal/commands"
	"github.com/sandeepkv93/daystream/internal/model"
)

const previewDates = 5

// repeatPreview lists the first dates a repeat command being typed would
// create, starting from the focus date.
func (m Model) repeatPreview() []string {
	if !m.Palette.Active {
		return nil
	}
	cmd, err := commands.Parse(m.Palette.Input)
	if err != nil || cmd.Type != commands.TypeRepeat {
		return nil
	}
	r := cmd.Repeat
	total := len(model.Expand(model.Draft{}, m.Focus, r.End, r.Rule))
	if total == 0 {
		return []string{"(no dates)"}
	}
	dates := r.Rule.Preview(m.Focus, r.End, previewDates)
	out := make([]string, 0, len(dates)+1)
	for _, d := range dates {
		out = append(out, d.Time().Format("Mon Jan 2"))
	}
	if total > len(dates) {
		out = append(out, fmt.Sprintf("(+%d more)", total-len(dates)))
	}
	return out
}

package outline

import (
	"fmt"
	"strings"

	"emberlog/internal/model"
)

// Render serializes the task tree back into outline text. Metadata fields are
// emitted in a fixed order (category, effort, friction, due date, completed
// at) regardless of where they sat in the source line, so the output is
// normalized but semantically identical.
func Render(sections *model.Sections) string {
	var lines []string
	for _, name := range model.SectionNames {
		lines = append(lines, "# "+name)
		for _, t := range sections.Get(name) {
			lines = append(lines, renderTask(t, 0))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func renderTask(t *model.Task, indent int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString("- ")
	if t.IsCompleted {
		b.WriteString("[x] ")
	} else {
		b.WriteString("[ ] ")
	}
	if t.IsIdea {
		b.WriteString("? ")
	}
	b.WriteString(t.Title)

	if t.Category != nil && *t.Category != "" {
		b.WriteString(" @" + *t.Category)
	}
	if t.Effort != nil && *t.Effort != "" {
		b.WriteString(" !" + *t.Effort)
	}
	if t.Friction != nil && *t.Friction != 0 {
		fmt.Fprintf(&b, " %%%d", *t.Friction)
	}
	if t.DueDate != nil && *t.DueDate != "" {
		b.WriteString(" ^" + *t.DueDate)
	}
	if t.CompletedAt != nil && *t.CompletedAt != "" {
		b.WriteString(" {" + *t.CompletedAt + "}")
	}

	lines := []string{b.String()}
	for _, sub := range t.Subtasks {
		lines = append(lines, renderTask(sub, indent+1))
	}
	return strings.Join(lines, "\n")
}

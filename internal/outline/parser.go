package outline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"emberlog/internal/model"
)

// Metadata tokens embedded in a task line, each optional and position
// independent. The first match wins for the field value; every occurrence is
// stripped from the title.
var (
	reCategory    = regexp.MustCompile(`@(\w+)`)
	reEffort      = regexp.MustCompile(`!(\d+[mhd])`)
	reFriction    = regexp.MustCompile(`%(\d)`)
	reDueDate     = regexp.MustCompile(`\^(\d{4}-\d{2}-\d{2})`)
	reCompletedAt = regexp.MustCompile(`\{([^}]+)\}`)
)

// Parse converts outline text into the three-section task tree. It never
// fails: lines that are not a section header or a well-formed task line are
// skipped, and task lines outside a known section are dropped.
func Parse(text string) *model.Sections {
	sections := model.NewSections()
	currentSection := ""
	var stack []*model.Task

	for lineNum, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "# ") {
			currentSection = strings.ToLower(trimmed[2:])
			stack = stack[:0]
			continue
		}
		if currentSection == "" || !strings.HasPrefix(trimmed, "- [") {
			continue
		}

		task, indent, ok := parseTaskLine(line, lineNum)
		if !ok {
			continue
		}

		// Discard ancestors at or below the new task's depth.
		for len(stack) > indent {
			stack = stack[:len(stack)-1]
		}

		if indent > 0 && len(stack) > 0 {
			parent := stack[len(stack)-1]
			pid := parent.ID
			task.ParentID = &pid
			parent.Subtasks = append(parent.Subtasks, task)
		} else {
			// Orphan indents fall back to top level of the current
			// section; unknown section names drop the task.
			sections.Append(currentSection, task)
		}

		if indent == len(stack) {
			stack = append(stack, task)
		}
	}

	return sections
}

// parseTaskLine parses one "- [ ]"/"- [x]" line. The indent level is computed
// from the untrimmed line, two spaces per level.
func parseTaskLine(line string, lineNum int) (*model.Task, int, bool) {
	stripped := strings.TrimLeftFunc(line, unicode.IsSpace)
	indent := (len(line) - len(stripped)) / 2

	stripped = strings.TrimSpace(stripped)
	if len(stripped) < 5 || !strings.HasPrefix(stripped, "- [") {
		return nil, 0, false
	}

	completed := stripped[3] == 'x'
	content := strings.TrimSpace(stripped[5:])

	isIdea := strings.HasPrefix(content, "?")
	if isIdea {
		content = strings.TrimSpace(content[1:])
	}

	task := &model.Task{
		ID:          fmt.Sprintf("task_%d", lineNum),
		IsIdea:      isIdea,
		IsCompleted: completed,
		Subtasks:    []*model.Task{},
	}

	if m := reCategory.FindStringSubmatch(content); m != nil {
		task.Category = &m[1]
	}
	if m := reEffort.FindStringSubmatch(content); m != nil {
		task.Effort = &m[1]
	}
	if m := reFriction.FindStringSubmatch(content); m != nil {
		f, _ := strconv.Atoi(m[1])
		task.Friction = &f
	}
	if m := reDueDate.FindStringSubmatch(content); m != nil {
		task.DueDate = &m[1]
	}
	if m := reCompletedAt.FindStringSubmatch(content); m != nil {
		task.CompletedAt = &m[1]
	}

	title := content
	for _, re := range []*regexp.Regexp{reCategory, reEffort, reFriction, reDueDate, reCompletedAt} {
		title = re.ReplaceAllString(title, "")
	}
	task.Title = strings.TrimSpace(title)

	return task, indent, true
}

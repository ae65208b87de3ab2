package model

// The three fixed outline sections. A parsed document always contains all
// three, even when the source file declares none of them.
const (
	SectionToday   = "today"
	SectionIdeas   = "ideas"
	SectionBacklog = "backlog"
)

// SectionNames is the canonical emit order for the serializer.
var SectionNames = []string{SectionToday, SectionIdeas, SectionBacklog}

// Sections is the parsed outline document.
type Sections struct {
	Today   []*Task `json:"today"`
	Ideas   []*Task `json:"ideas"`
	Backlog []*Task `json:"backlog"`
}

// NewSections returns an empty document with all three sections present.
func NewSections() *Sections {
	return &Sections{
		Today:   []*Task{},
		Ideas:   []*Task{},
		Backlog: []*Task{},
	}
}

// Get returns the task list for a section name, or nil for an unknown name.
func (s *Sections) Get(name string) []*Task {
	switch name {
	case SectionToday:
		return s.Today
	case SectionIdeas:
		return s.Ideas
	case SectionBacklog:
		return s.Backlog
	default:
		return nil
	}
}

// Append adds a top-level task to the named section. Unknown names are
// dropped, matching the parser's section policy.
func (s *Sections) Append(name string, t *Task) {
	switch name {
	case SectionToday:
		s.Today = append(s.Today, t)
	case SectionIdeas:
		s.Ideas = append(s.Ideas, t)
	case SectionBacklog:
		s.Backlog = append(s.Backlog, t)
	}
}

// Walk visits every task in the document depth-first, parents before
// children.
func (s *Sections) Walk(fn func(t *Task)) {
	var visit func(ts []*Task)
	visit = func(ts []*Task) {
		for _, t := range ts {
			fn(t)
			visit(t.Subtasks)
		}
	}
	visit(s.Today)
	visit(s.Ideas)
	visit(s.Backlog)
}

package stats

import (
	"sort"
	"strings"

	"emberlog/internal/model"
)

// CategoryCount tallies tasks carrying one category tag.
type CategoryCount struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Summary is the aggregate stats payload for the dashboard.
type Summary struct {
	Categories     map[string]*CategoryCount `json:"categories"`
	TotalTasks     int                       `json:"total_tasks"`
	CompletedToday int                       `json:"completed_today"`
	XPToday        int                       `json:"xp_today"`
	TotalXP        int                       `json:"total_xp"`
	Level          int                       `json:"level"`
	XPForNextLevel int                       `json:"xp_for_next_level"`
	XPProgress     int                       `json:"xp_progress"`
	Streak         int                       `json:"streak"`
}

// Summarize folds the whole task tree into a Summary. today is an ISO date
// (YYYY-MM-DD); a completed task counts toward today when its completion
// timestamp starts with that date.
func Summarize(sections *model.Sections, today string) *Summary {
	s := &Summary{
		Categories:     map[string]*CategoryCount{},
		Level:          1,
		XPForNextLevel: XPPerLevel,
	}

	sections.Walk(func(t *model.Task) {
		s.TotalTasks++

		if t.Category != nil && *t.Category != "" && !t.IsIdea {
			cc, ok := s.Categories[*t.Category]
			if !ok {
				cc = &CategoryCount{}
				s.Categories[*t.Category] = cc
			}
			cc.Total++
			if t.IsCompleted {
				cc.Completed++
			}
		}

		if t.IsCompleted {
			xp := XP(t)
			s.TotalXP += xp
			if t.CompletedAt != nil && strings.HasPrefix(*t.CompletedAt, today) {
				s.CompletedToday++
				s.XPToday += xp
			}
		}
	})

	s.Level = 1 + s.TotalXP/XPPerLevel
	s.XPProgress = s.TotalXP % XPPerLevel
	return s
}

// QuickWin is a low-effort candidate task surfaced to the user.
type QuickWin struct {
	model.Task
	EffortMinutes int `json:"effort_minutes"`
	XP            int `json:"xp"`
}

// PickQuickWin returns the incomplete, non-idea task with effort at most 30
// minutes that costs the least time for the most XP, or nil when none
// qualifies.
func PickQuickWin(sections *model.Sections) *QuickWin {
	var candidates []*QuickWin

	sections.Walk(func(t *model.Task) {
		if t.IsCompleted || t.IsIdea {
			return
		}
		minutes := quickWinMinutes(t.Effort)
		if minutes > 30 {
			return
		}
		candidates = append(candidates, &QuickWin{
			Task:          *t,
			EffortMinutes: minutes,
			XP:            XP(t),
		})
	})

	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].EffortMinutes != candidates[j].EffortMinutes {
			return candidates[i].EffortMinutes < candidates[j].EffortMinutes
		}
		return candidates[i].XP > candidates[j].XP
	})
	return candidates[0]
}

// quickWinMinutes mirrors the quick-win heuristic: only minute and hour
// tokens count, everything else is treated as the 30 minute default.
func quickWinMinutes(effort *string) int {
	if effort == nil || *effort == "" {
		return model.DefaultEffortMinutes
	}
	e := *effort
	switch e[len(e)-1] {
	case 'm', 'h':
		return model.EffortMinutes(e, model.DefaultEffortMinutes)
	default:
		return model.DefaultEffortMinutes
	}
}

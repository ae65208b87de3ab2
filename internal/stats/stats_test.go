package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emberlog/internal/model"
)

func TestSummarize(t *testing.T) {
	sections := model.NewSections()
	sections.Today = append(sections.Today,
		&model.Task{
			Title:       "done today",
			IsCompleted: true,
			Category:    strp("work"),
			Effort:      strp("1h"),
			Friction:    intp(3),
			CompletedAt: strp("2026-08-29T10:00:00"),
		},
		&model.Task{Title: "open", Category: strp("work")},
	)
	sections.Backlog = append(sections.Backlog, &model.Task{
		Title:       "done last week",
		IsCompleted: true,
		CompletedAt: strp("2026-08-20T10:00:00"),
	})
	sections.Ideas = append(sections.Ideas, &model.Task{
		Title:    "idea with category",
		IsIdea:   true,
		Category: strp("work"),
	})

	s := Summarize(sections, "2026-08-29")

	assert.Equal(t, 4, s.TotalTasks)
	assert.Equal(t, 1, s.CompletedToday)
	assert.Equal(t, 424, s.XPToday)
	// 424 for today plus 245 default-scored for last week.
	assert.Equal(t, 669, s.TotalXP)
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 169, s.XPProgress)
	assert.Equal(t, XPPerLevel, s.XPForNextLevel)

	require.Contains(t, s.Categories, "work")
	// Ideas never count toward category totals.
	assert.Equal(t, 2, s.Categories["work"].Total)
	assert.Equal(t, 1, s.Categories["work"].Completed)
}

func TestSummarize_EmptyDocument(t *testing.T) {
	s := Summarize(model.NewSections(), "2026-08-29")
	assert.Equal(t, 0, s.TotalTasks)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 0, s.XPProgress)
	assert.Empty(t, s.Categories)
}

func TestPickQuickWin_PrefersShortestThenHighestXP(t *testing.T) {
	sections := model.NewSections()
	sections.Today = append(sections.Today,
		&model.Task{Title: "half hour", Effort: strp("30m")},
		&model.Task{Title: "quarter hour easy", Effort: strp("15m"), Friction: intp(1)},
		&model.Task{Title: "quarter hour hard", Effort: strp("15m"), Friction: intp(4)},
		&model.Task{Title: "too long", Effort: strp("2h")},
	)

	win := PickQuickWin(sections)
	require.NotNil(t, win)
	assert.Equal(t, "quarter hour hard", win.Title)
	assert.Equal(t, 15, win.EffortMinutes)
}

func TestPickQuickWin_SkipsCompletedAndIdeas(t *testing.T) {
	sections := model.NewSections()
	sections.Today = append(sections.Today,
		&model.Task{Title: "done", Effort: strp("5m"), IsCompleted: true},
		&model.Task{Title: "just an idea", Effort: strp("5m"), IsIdea: true},
	)
	assert.Nil(t, PickQuickWin(sections))
}

func TestPickQuickWin_DaySuffixCountsAsDefault(t *testing.T) {
	// Day-denominated efforts are not parsed by the quick-win heuristic and
	// fall back to the 30 minute default, which keeps them eligible.
	sections := model.NewSections()
	sections.Backlog = append(sections.Backlog, &model.Task{Title: "big", Effort: strp("1d")})

	win := PickQuickWin(sections)
	require.NotNil(t, win)
	assert.Equal(t, model.DefaultEffortMinutes, win.EffortMinutes)
}

func TestPickQuickWin_Empty(t *testing.T) {
	assert.Nil(t, PickQuickWin(model.NewSections()))
}

package stats

import (
	"errors"
	"fmt"
	"math"

	"emberlog/internal/model"
)

// XPPerLevel is how much total XP each level requires.
const XPPerLevel = 500

// ErrMissingMetadata is returned when an energy cost is requested for a task
// without both effort and friction. Guessing a cost here would corrupt the
// energy economy, so absence is a hard error rather than a default.
var ErrMissingMetadata = errors.New("effort and friction are required to compute energy cost")

// XP scores a task from its effort and friction, with a 1.5x bonus when every
// subtask is completed. Absent metadata falls back to 30m effort and
// friction 2.
func XP(t *model.Task) int {
	minutes := t.EffortMinutes()
	friction := t.FrictionOrDefault()

	xp := int(math.Round(100 * math.Sqrt(1+float64(minutes)/60) * float64(friction)))

	if len(t.Subtasks) > 0 {
		completed := 0
		for _, st := range t.Subtasks {
			if st.IsCompleted {
				completed++
			}
		}
		if completed == len(t.Subtasks) {
			xp = int(float64(xp) * 1.5)
		}
	}
	return xp
}

// EnergyCost converts effort and friction into an energy price, one point per
// half hour adjusted by friction, clamped to [1, maxEnergy].
func EnergyCost(effort *string, friction *int, maxEnergy int) (int, error) {
	if effort == nil || *effort == "" || friction == nil {
		return 0, ErrMissingMetadata
	}

	minutes := model.EffortMinutes(*effort, 0)
	if minutes <= 0 {
		return 0, fmt.Errorf("invalid effort token %q", *effort)
	}

	cost := minutes / 30
	if cost < 1 {
		cost = 1
	}
	cost += *friction - 2

	if cost < 1 {
		cost = 1
	}
	if cost > maxEnergy {
		cost = maxEnergy
	}
	return cost, nil
}

package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emberlog/internal/model"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestXP_FromEffortAndFriction(t *testing.T) {
	// 100 * sqrt(1 + 60/60) * 3 = 424.26 rounds to 424.
	task := &model.Task{Effort: strp("1h"), Friction: intp(3)}
	assert.Equal(t, 424, XP(task))
}

func TestXP_DefaultsWhenMetadataAbsent(t *testing.T) {
	// 100 * sqrt(1.5) * 2 = 244.95 rounds to 245.
	assert.Equal(t, 245, XP(&model.Task{}))
}

func TestXP_BonusWhenAllSubtasksComplete(t *testing.T) {
	task := &model.Task{
		Subtasks: []*model.Task{
			{IsCompleted: true},
			{IsCompleted: true},
		},
	}
	// Base 245, bonus 1.5x truncated to 367.
	assert.Equal(t, 367, XP(task))

	task.Subtasks[1].IsCompleted = false
	assert.Equal(t, 245, XP(task))
}

func TestEnergyCost(t *testing.T) {
	cases := []struct {
		name     string
		effort   string
		friction int
		want     int
	}{
		{"one hour baseline friction", "1h", 2, 2},
		{"short but high friction", "30m", 5, 4},
		{"multi day clamps to max", "2d", 2, 12},
		{"tiny low friction floors at one", "5m", 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EnergyCost(strp(tc.effort), intp(tc.friction), 12)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEnergyCost_RequiresBothFields(t *testing.T) {
	_, err := EnergyCost(nil, intp(2), 12)
	assert.ErrorIs(t, err, ErrMissingMetadata)

	_, err = EnergyCost(strp("1h"), nil, 12)
	assert.ErrorIs(t, err, ErrMissingMetadata)

	_, err = EnergyCost(strp(""), intp(2), 12)
	assert.ErrorIs(t, err, ErrMissingMetadata)
}

func TestEnergyCost_RejectsUnparseableEffort(t *testing.T) {
	_, err := EnergyCost(strp("soon"), intp(2), 12)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingMetadata)
}

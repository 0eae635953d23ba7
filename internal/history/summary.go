package history

import (
	"github.com/claude/repcounter/internal/counter"
	"github.com/claude/repcounter/internal/models"
)

// RecentLimit is how many records a Summary lists.
const RecentLimit = 5

// Summary holds aggregate statistics over all stored workouts.
type Summary struct {
	TotalWorkouts int            `json:"total_workouts"`
	TotalReps     int            `json:"total_reps"`
	TotalCalories float64        `json:"total_calories"`
	TotalMinutes  float64        `json:"total_duration_mins"`
	TotalDuration string         `json:"total_duration"`
	ByExercise    []ExerciseStat `json:"by_exercise"`
	// Recent holds the last RecentLimit records, oldest first like
	// Store.Recent.
	Recent []models.WorkoutRecord `json:"recent"`
}

// ExerciseStat holds summary stats for one exercise.
type ExerciseStat struct {
	Exercise counter.Exercise `json:"exercise"`
	Label    string           `json:"label"`
	Count    int              `json:"count"`
	Reps     int              `json:"reps"`
	Calories float64          `json:"calories"`
}

// Summary aggregates the store. Exercises appear in the order they were
// first recorded; Recent holds the last RecentLimit records, oldest first.
func (s *Store) Summary(formatMinutes func(float64) string) Summary {
	records := s.List()

	sum := Summary{
		ByExercise: []ExerciseStat{},
		Recent:     []models.WorkoutRecord{},
	}
	index := make(map[counter.Exercise]int)
	for _, r := range records {
		sum.TotalWorkouts++
		sum.TotalReps += r.Reps
		sum.TotalCalories += r.Calories
		sum.TotalMinutes += r.DurationMinutes

		i, ok := index[r.Exercise]
		if !ok {
			i = len(sum.ByExercise)
			index[r.Exercise] = i
			sum.ByExercise = append(sum.ByExercise, ExerciseStat{Exercise: r.Exercise, Label: r.Exercise.Label()})
		}
		st := &sum.ByExercise[i]
		st.Count++
		st.Reps += r.Reps
		st.Calories += r.Calories
	}

	sum.Recent = append(sum.Recent, records[max(0, len(records)-RecentLimit):]...)
	if formatMinutes != nil {
		sum.TotalDuration = formatMinutes(sum.TotalMinutes)
	}
	return sum
}

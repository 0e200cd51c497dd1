package model

import (
	"math"

	"github.com/samber/lo"
)

// Summary gives batch-level statistics over a feature table.
type Summary struct {
	Records            int     `json:"records"`
	Instances          int     `json:"instances"`
	MeanDifficulty     float64 `json:"mean_difficulty"`
	StdDifficulty      float64 `json:"std_difficulty"` // Sample standard deviation
	MeanConflictDegree float64 `json:"mean_conflict_degree"`
	MaxDifficulty      float64 `json:"max_difficulty"`
	HardestCourse      string  `json:"hardest_course"`
	HardestInstance    string  `json:"hardest_instance"`
}

func Summarize(records []CourseFeatures) Summary {
	if len(records) == 0 {
		return Summary{}
	}

	n := float64(len(records))
	mean := lo.SumBy(records, func(record CourseFeatures) float64 { return record.DifficultyScore }) / n

	std := 0.0
	if len(records) > 1 {
		squares := lo.SumBy(records, func(record CourseFeatures) float64 {
			return (record.DifficultyScore - mean) * (record.DifficultyScore - mean)
		})
		std = math.Sqrt(squares / (n - 1))
	}

	hardest := lo.MaxBy(records, func(a, b CourseFeatures) bool { return a.DifficultyScore > b.DifficultyScore })

	return Summary{
		Records:            len(records),
		Instances:          len(lo.UniqBy(records, func(record CourseFeatures) string { return record.Instance })),
		MeanDifficulty:     mean,
		StdDifficulty:      std,
		MeanConflictDegree: lo.SumBy(records, func(record CourseFeatures) float64 { return float64(record.ConflictDegree) }) / n,
		MaxDifficulty:      hardest.DifficultyScore,
		HardestCourse:      hardest.CourseId,
		HardestInstance:    hardest.Instance,
	}
}

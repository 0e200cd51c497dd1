package model

const (
	ConflictWeight     = 0.25
	ConstraintWeight   = 0.20
	DensityWeight      = 0.15
	StudentWeight      = 0.15
	RoomPressureWeight = 0.10
	UtilizationWeight  = 0.10
	MinDaysWeight      = 0.05

	// Enrollment at which the student component saturates
	StudentSaturation = 1000
)

// DifficultyComponents are the weighted terms whose sum is the difficulty score.
type DifficultyComponents struct {
	Conflict     float64
	Constraint   float64
	Density      float64
	Student      float64
	RoomPressure float64
	Utilization  float64
	MinDays      float64
}

func (components DifficultyComponents) Total() float64 {
	return components.Conflict +
		components.Constraint +
		components.Density +
		components.Student +
		components.RoomPressure +
		components.Utilization +
		components.MinDays
}

// Components derives the weighted terms from already computed features. The
// student term is capped at StudentWeight.
func Components(features CourseFeatures) DifficultyComponents {
	return DifficultyComponents{
		Conflict:     float64(features.ConflictDegree) * ConflictWeight,
		Constraint:   float64(features.UnavailabilityCount) * ConstraintWeight,
		Density:      features.LectureDensity * DensityWeight,
		Student:      min(float64(features.Students)/StudentSaturation, 1) * StudentWeight,
		RoomPressure: features.CourseRoomRatio * RoomPressureWeight,
		Utilization:  features.UtilizationPressure * UtilizationWeight,
		MinDays:      float64(max(0, features.Lectures-features.MinDays)) * MinDaysWeight,
	}
}

// Score is the unclamped weighted sum of the difficulty components.
func Score(features CourseFeatures) float64 {
	return Components(features).Total()
}

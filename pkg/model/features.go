package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Measure is a real number that may legitimately be non-finite, such as the
// mean room capacity of an instance without rooms. Non-finite values are
// encoded as strings ("NaN", "+Inf", "-Inf") since JSON has no literal for them.
type Measure float64

func (measure Measure) IsFinite() bool {
	value := float64(measure)
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func (measure Measure) MarshalJSON() ([]byte, error) {
	if !measure.IsFinite() {
		return []byte(strconv.Quote(measure.String())), nil
	}
	return json.Marshal(float64(measure))
}

func (measure *Measure) UnmarshalJSON(data []byte) error {
	var value float64
	if err := json.Unmarshal(data, &value); err == nil {
		*measure = Measure(value)
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("measure must be a number or a string: %w", err)
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("invalid measure %q: %w", text, err)
	}
	*measure = Measure(value)
	return nil
}

func (measure Measure) MarshalCSV() (string, error) {
	return measure.String(), nil
}

func (measure Measure) String() string {
	return strconv.FormatFloat(float64(measure), 'g', -1, 64)
}

// CourseFeatures is the feature record of one course of one instance. Tags
// carry the field names consumers rely on.
type CourseFeatures struct {
	Instance                   string  `csv:"instance" json:"instance"`
	CourseId                   string  `csv:"course_id" json:"course_id"`
	Lectures                   int     `csv:"lectures" json:"lectures"`
	MinDays                    int     `csv:"min_days" json:"min_days"`
	Students                   int     `csv:"students" json:"students"`
	Teacher                    string  `csv:"teacher" json:"teacher"`
	TotalCourses               int     `csv:"total_courses" json:"total_courses"`
	TotalRooms                 int     `csv:"total_rooms" json:"total_rooms"`
	TotalDays                  int     `csv:"total_days" json:"total_days"`
	PeriodsPerDay              int     `csv:"periods_per_day" json:"periods_per_day"`
	TotalCurricula             int     `csv:"total_curricula" json:"total_curricula"`
	TotalLectures              int     `csv:"total_lectures" json:"total_lectures"`
	AvgRoomCapacity            Measure `csv:"avg_room_capacity" json:"avg_room_capacity"`
	LectureDensity             float64 `csv:"lecture_density" json:"lecture_density"`
	StudentLectureRatio        float64 `csv:"student_lecture_ratio" json:"student_lecture_ratio"`
	CourseRoomRatio            float64 `csv:"course_room_ratio" json:"course_room_ratio"`
	UtilizationPressure        float64 `csv:"utilization_pressure" json:"utilization_pressure"`
	MinDaysConstraintTightness float64 `csv:"min_days_constraint_tightness" json:"min_days_constraint_tightness"`
	ConflictDegree             int     `csv:"conflict_degree" json:"conflict_degree"`
	ConflictDensity            float64 `csv:"conflict_density" json:"conflict_density"`
	ClusteringCoefficient      float64 `csv:"clustering_coefficient" json:"clustering_coefficient"`
	BetweennessCentrality      float64 `csv:"betweenness_centrality" json:"betweenness_centrality"`
	UnavailabilityCount        int     `csv:"unavailability_count" json:"unavailability_count"`
	UnavailabilityRatio        float64 `csv:"unavailability_ratio" json:"unavailability_ratio"`
	RoomConstraintCount        int     `csv:"room_constraint_count" json:"room_constraint_count"`
	DifficultyScore            float64 `csv:"difficulty_score" json:"difficulty_score"`
}

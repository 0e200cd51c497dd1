package model

import (
	"math"

	"github.com/samber/lo"
)

type extractorImplementation struct {
	config Config
}

// Quantities shared by every course of an instance
type instanceAggregates struct {
	totalCourses        int
	totalRooms          int
	totalDays           int
	periodsPerDay       int
	totalCurricula      int
	totalLectures       int
	periods             float64 // days * periods per day, floored at 1 for division
	avgRoomCapacity     Measure
	courseRoomRatio     float64
	utilizationPressure float64
	centrality          Centrality
	unavailability      map[string]int
	roomConstraints     map[string]int
}

func (extractor *extractorImplementation) Extract(instance Instance, graph *ConflictGraph) ([]CourseFeatures, Centrality) {
	if instance.IsEmpty() {
		return []CourseFeatures{}, unavailableCentrality("instance has no courses")
	}

	aggregates := extractor.aggregate(instance, graph)
	records := make([]CourseFeatures, 0, len(instance.Courses))
	for _, course := range instance.Courses {
		record := extractor.courseFeatures(instance, course, graph, aggregates)
		record.DifficultyScore = Score(record)
		records = append(records, record)
	}
	return records, aggregates.centrality
}

func (extractor *extractorImplementation) aggregate(instance Instance, graph *ConflictGraph) instanceAggregates {
	days, periodsPerDay := instance.Days(extractor.config), instance.PeriodsPerDay(extractor.config)
	totalLectures := lo.SumBy(instance.Courses, func(course Course) int { return course.Lectures })
	periods := float64(max(days*periodsPerDay, 1))

	avgRoomCapacity := Measure(math.NaN())
	if len(instance.Rooms) > 0 {
		capacity := lo.SumBy(instance.Rooms, func(room Room) int { return room.Capacity })
		avgRoomCapacity = Measure(float64(capacity) / float64(len(instance.Rooms)))
	}

	// No rooms leaves the ratio undefined; it is reported as 0
	courseRoomRatio := 0.0
	if len(instance.Rooms) > 0 {
		courseRoomRatio = float64(len(instance.Courses)) / float64(len(instance.Rooms))
	}

	return instanceAggregates{
		totalCourses:        len(instance.Courses),
		totalRooms:          len(instance.Rooms),
		totalDays:           days,
		periodsPerDay:       periodsPerDay,
		totalCurricula:      len(instance.Curricula),
		totalLectures:       totalLectures,
		periods:             periods,
		avgRoomCapacity:     avgRoomCapacity,
		courseRoomRatio:     courseRoomRatio,
		utilizationPressure: float64(totalLectures) / periods,
		centrality:          BetweennessCentrality(graph, extractor.config.CentralityNodeLimit),
		unavailability: lo.CountValuesBy(instance.Unavailability, func(constraint UnavailabilityConstraint) string {
			return constraint.Course
		}),
		roomConstraints: lo.CountValuesBy(instance.RoomConstraints, func(constraint RoomConstraint) string {
			return constraint.Course
		}),
	}
}

func (extractor *extractorImplementation) courseFeatures(instance Instance, course Course, graph *ConflictGraph, aggregates instanceAggregates) CourseFeatures {
	features := CourseFeatures{
		Instance:            instance.Name,
		CourseId:            course.Id,
		Lectures:            course.Lectures,
		MinDays:             course.MinDays,
		Students:            course.Students,
		Teacher:             course.Teacher,
		TotalCourses:        aggregates.totalCourses,
		TotalRooms:          aggregates.totalRooms,
		TotalDays:           aggregates.totalDays,
		PeriodsPerDay:       aggregates.periodsPerDay,
		TotalCurricula:      aggregates.totalCurricula,
		TotalLectures:       aggregates.totalLectures,
		AvgRoomCapacity:     aggregates.avgRoomCapacity,
		CourseRoomRatio:     aggregates.courseRoomRatio,
		UtilizationPressure: aggregates.utilizationPressure,

		LectureDensity:             float64(course.Lectures) / aggregates.periods,
		StudentLectureRatio:        float64(course.Students) / float64(max(course.Lectures, 1)),
		MinDaysConstraintTightness: float64(course.Lectures) / float64(max(course.MinDays, 1)),
	}

	if graph.HasNode(course.Id) {
		degree := graph.Degree(course.Id)
		features.ConflictDegree = degree
		features.ConflictDensity = float64(degree) / float64(max(aggregates.totalCourses-1, 1))
		features.ClusteringCoefficient = LocalClustering(graph, course.Id)
		features.BetweennessCentrality = aggregates.centrality.Value(course.Id)
	}

	features.UnavailabilityCount = aggregates.unavailability[course.Id]
	features.UnavailabilityRatio = float64(features.UnavailabilityCount) / aggregates.periods
	features.RoomConstraintCount = aggregates.roomConstraints[course.Id]
	return features
}

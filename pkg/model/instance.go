package model

import (
	"fmt"
	"strconv"
)

// MetadataValue holds a top-level "key: value" entry. Values that parse as
// integers are kept as such, everything else is kept verbatim.
type MetadataValue struct {
	Int   int
	Text  string
	IsInt bool
}

func newMetadataValue(raw string) MetadataValue {
	if value, err := strconv.Atoi(raw); err == nil {
		return MetadataValue{Int: value, Text: raw, IsInt: true}
	}
	return MetadataValue{Text: raw}
}

type Metadata map[string]MetadataValue

// Int returns the integer stored under key, or fallback when the key is
// absent or its value is not an integer.
func (metadata Metadata) Int(key string, fallback int) int {
	value, ok := metadata[key]
	if !ok || !value.IsInt {
		return fallback
	}
	return value.Int
}

func (metadata Metadata) String(key string) string {
	return metadata[key].Text
}

type Course struct {
	Id       string
	Teacher  string
	Lectures int
	MinDays  int
	Students int
}

type Room struct {
	Id       string
	Capacity int
}

type Curriculum struct {
	Id              string
	DeclaredCourses int // As stated in the document; never checked against len(Courses)
	Courses         []string
}

type UnavailabilityConstraint struct {
	Course string
	Day    int
	Period int
}

type RoomConstraint struct {
	Course string
	Room   string
}

// Instance is one complete timetabling problem description. References from
// curricula and constraints to courses are not guaranteed to resolve.
type Instance struct {
	Name            string
	Metadata        Metadata
	Courses         []Course
	Rooms           []Room
	Curricula       []Curriculum
	Unavailability  []UnavailabilityConstraint
	RoomConstraints []RoomConstraint
	Diagnostics     []error
}

func newInstance(name string) Instance {
	return Instance{
		Name:            name,
		Metadata:        make(Metadata),
		Courses:         make([]Course, 0),
		Rooms:           make([]Room, 0),
		Curricula:       make([]Curriculum, 0),
		Unavailability:  make([]UnavailabilityConstraint, 0),
		RoomConstraints: make([]RoomConstraint, 0),
	}
}

func (instance Instance) CourseById(id string) (Course, bool) {
	for _, course := range instance.Courses {
		if course.Id == id {
			return course, true
		}
	}
	return Course{}, false
}

func (instance Instance) Days(config Config) int {
	return instance.Metadata.Int("days", config.DefaultDays)
}

func (instance Instance) PeriodsPerDay(config Config) int {
	return instance.Metadata.Int("periods_per_day", config.DefaultPeriodsPerDay)
}

// IsEmpty reports whether the instance has no courses, in which case it
// contributes nothing to a feature table.
func (instance Instance) IsEmpty() bool {
	return len(instance.Courses) == 0
}

// UnreadableInputError is attached to an Instance whose document could not be read.
type UnreadableInputError struct {
	Name string
	Err  error
}

func (err UnreadableInputError) Error() string {
	return fmt.Sprintf("cannot read instance %q: %v", err.Name, err.Err)
}

func (err UnreadableInputError) Unwrap() error {
	return err.Err
}

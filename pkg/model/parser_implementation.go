package model

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	coursesHeader         = "COURSES:"
	roomsHeader           = "ROOMS:"
	curriculaHeader       = "CURRICULA:"
	unavailabilityHeader  = "UNAVAILABILITY_CONSTRAINTS:"
	roomConstraintsHeader = "ROOM_CONSTRAINTS:"
)

// Lines starting with any of these prefixes are never read as metadata
var sectionPrefixes = []string{coursesHeader, roomsHeader, curriculaHeader, "UNAVAILABILITY_", "ROOM_"}

var (
	errNilReader       = errors.New("no reader supplied")
	errInvalidEncoding = errors.New("document is not valid UTF-8")
)

type parserImplementation struct {
	config Config
	logger zerolog.Logger
}

func (parser *parserImplementation) ParseString(name string, text string) Instance {
	return parser.Parse(name, strings.NewReader(text))
}

func (parser *parserImplementation) Parse(name string, reader io.Reader) Instance {
	instance := newInstance(name)

	content, err := readDocument(reader)
	if err != nil {
		parser.logger.Warn().Err(err).Str("instance", name).Msg("cannot read instance, continuing with an empty one")
		instance.Diagnostics = append(instance.Diagnostics, UnreadableInputError{Name: name, Err: err})
		return instance
	}

	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	parser.parseMetadata(lines, instance.Metadata)

	for _, section := range splitSections(lines) {
		parser.parseSection(section, &instance)
	}

	parser.logger.Debug().
		Str("instance", name).
		Int("courses", len(instance.Courses)).
		Int("rooms", len(instance.Rooms)).
		Int("curricula", len(instance.Curricula)).
		Int("unavailability", len(instance.Unavailability)).
		Int("room_constraints", len(instance.RoomConstraints)).
		Msg("instance parsed")
	return instance
}

func readDocument(reader io.Reader) (string, error) {
	if reader == nil {
		return "", errNilReader
	}
	bytes, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", errInvalidEncoding
	}
	return strings.TrimSpace(string(bytes)), nil
}

func (parser *parserImplementation) parseMetadata(lines []string, metadata Metadata) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, ":") || lo.SomeBy(sectionPrefixes, func(prefix string) bool {
			return strings.HasPrefix(line, prefix)
		}) {
			continue
		}

		key, value, _ := strings.Cut(line, ":")
		metadata[strings.ToLower(strings.TrimSpace(key))] = newMetadataValue(strings.TrimSpace(value))
	}
}

// Groups trimmed, non-blank lines into sections delimited by blank lines
func splitSections(lines []string) [][]string {
	sections := make([][]string, 0)
	current := make([]string, 0)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			current = append(current, line)
			continue
		}
		if len(current) > 0 {
			sections = append(sections, current)
			current = make([]string, 0)
		}
	}
	if len(current) > 0 {
		sections = append(sections, current)
	}
	return sections
}

func (parser *parserImplementation) parseSection(section []string, instance *Instance) {
	header, records := section[0], section[1:]
	minFields := parser.config.MinFields

	switch header {
	case coursesHeader:
		instance.Courses = append(instance.Courses, parseRecords(parser, header, records, minFields.Courses, decodeCourse)...)
	case roomsHeader:
		instance.Rooms = append(instance.Rooms, parseRecords(parser, header, records, minFields.Rooms, decodeRoom)...)
	case curriculaHeader:
		instance.Curricula = append(instance.Curricula, parseRecords(parser, header, records, minFields.Curricula, decodeCurriculum)...)
	case unavailabilityHeader:
		instance.Unavailability = append(instance.Unavailability, parseRecords(parser, header, records, minFields.Unavailability, decodeUnavailability)...)
	case roomConstraintsHeader:
		instance.RoomConstraints = append(instance.RoomConstraints, parseRecords(parser, header, records, minFields.RoomConstraints, decodeRoomConstraint)...)
	}
}

// parseRecords decodes every line of a section, silently dropping lines with
// too few fields or with numeric fields that are not integers.
func parseRecords[T any](parser *parserImplementation, header string, lines []string, minFields int, decode func(fields []string) (T, error)) []T {
	records := make([]T, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < minFields {
			parser.logger.Debug().Str("section", header).Str("line", line).Msg("dropping record with too few fields")
			continue
		}

		record, err := decode(fields)
		if err != nil {
			parser.logger.Debug().Str("section", header).Str("line", line).Err(err).Msg("dropping malformed record")
			continue
		}
		records = append(records, record)
	}
	return records
}

func integers(fields ...string) ([]int, error) {
	values := make([]int, len(fields))
	for i, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func decodeCourse(fields []string) (Course, error) {
	values, err := integers(fields[2], fields[3], fields[4])
	if err != nil {
		return Course{}, err
	}
	return Course{
		Id:       fields[0],
		Teacher:  fields[1],
		Lectures: values[0],
		MinDays:  values[1],
		Students: values[2],
	}, nil
}

func decodeRoom(fields []string) (Room, error) {
	capacity, err := strconv.Atoi(fields[1])
	if err != nil {
		return Room{}, err
	}
	return Room{Id: fields[0], Capacity: capacity}, nil
}

func decodeCurriculum(fields []string) (Curriculum, error) {
	declared, err := strconv.Atoi(fields[1])
	if err != nil {
		return Curriculum{}, err
	}
	courses := make([]string, len(fields)-2)
	copy(courses, fields[2:])
	return Curriculum{Id: fields[0], DeclaredCourses: declared, Courses: courses}, nil
}

func decodeUnavailability(fields []string) (UnavailabilityConstraint, error) {
	values, err := integers(fields[1], fields[2])
	if err != nil {
		return UnavailabilityConstraint{}, err
	}
	return UnavailabilityConstraint{Course: fields[0], Day: values[0], Period: values[1]}, nil
}

func decodeRoomConstraint(fields []string) (RoomConstraint, error) {
	return RoomConstraint{Course: fields[0], Room: fields[1]}, nil
}

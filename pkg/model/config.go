package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

var ErrInvalidConfig = errors.New("invalid engine configuration")

// MinFields holds the minimum number of whitespace-delimited fields a record
// line needs for each section. Lines with fewer fields are dropped.
type MinFields struct {
	Courses         int `mapstructure:"courses" validate:"min=5"`
	Rooms           int `mapstructure:"rooms" validate:"min=2"`
	Curricula       int `mapstructure:"curricula" validate:"min=3"`
	Unavailability  int `mapstructure:"unavailability" validate:"min=3"`
	RoomConstraints int `mapstructure:"roomConstraints" validate:"min=2"`
}

// Config is passed explicitly to every engine entry point.
type Config struct {
	DefaultDays          int       `mapstructure:"defaultDays" validate:"min=1"`
	DefaultPeriodsPerDay int       `mapstructure:"defaultPeriodsPerDay" validate:"min=1"`
	MinFields            MinFields `mapstructure:"minFields"`
	CentralityNodeLimit  int       `mapstructure:"centralityNodeLimit" validate:"min=0"` // 0 means unlimited
	Workers              int       `mapstructure:"workers" validate:"min=1"`
}

func DefaultConfig() Config {
	return Config{
		DefaultDays:          5,
		DefaultPeriodsPerDay: 6,
		MinFields: MinFields{
			Courses:         5,
			Rooms:           2,
			Curricula:       3,
			Unavailability:  3,
			RoomConstraints: 2,
		},
		CentralityNodeLimit: 0,
		Workers:             runtime.GOMAXPROCS(0),
	}
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

func (config Config) Validate() error {
	if err := configValidator.Struct(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ConfigFromJson reads a JSON document and overlays it on DefaultConfig, so
// keys missing from the file keep their default values.
func ConfigFromJson(file string) (Config, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file: %w", err)
	}

	var configJson map[string]any
	if err := json.Unmarshal(bytes, &configJson); err != nil {
		return Config{}, fmt.Errorf("cannot parse config file: %w", err)
	}

	config := DefaultConfig()
	if err := mapstructure.Decode(configJson, &config); err != nil {
		return Config{}, fmt.Errorf("cannot decode config file: %w", err)
	}

	return config, config.Validate()
}

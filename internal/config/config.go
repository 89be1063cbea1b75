// Package config — файл конфигурации запуска (YAML) с проверкой через validator.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"rostering/internal/lns"
)

// File — корень конфигурации.
type File struct {
	// Instance — откуда взять экземпляр: файл или генератор.
	Instance InstanceConfig `yaml:"instance"`

	LNS LNSConfig `yaml:"lns"`

	Seed     int64  `yaml:"seed"`
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// InstanceConfig: если Path пуст, экземпляр генерируется из Random.
type InstanceConfig struct {
	Path   string       `yaml:"path"`
	Random RandomConfig `yaml:"random"`
}

type RandomConfig struct {
	Slots     int     `yaml:"slots" validate:"gt=0"`
	Employees int     `yaml:"employees" validate:"gt=0"`
	Skills    int     `yaml:"skills" validate:"gt=0"`
	SkillProb float64 `yaml:"skill_prob" validate:"gte=0,lte=1"`
	MaxDemand int     `yaml:"max_demand" validate:"gte=0"`
	Seed      int64   `yaml:"seed"`
}

type LNSConfig struct {
	FixProbability      float64       `yaml:"fix_probability" validate:"gte=0,lte=1"`
	FailureLimit        int           `yaml:"failure_limit" validate:"gt=0"`
	Iterations          int           `yaml:"iterations" validate:"gte=0"`
	InitFailureLimit    int           `yaml:"init_failure_limit" validate:"gte=0"`
	InitTimeLimit       time.Duration `yaml:"init_time_limit" validate:"gte=0"`
	TimeLimit           time.Duration `yaml:"time_limit" validate:"gte=0"`
	FirstSolutionOnly   bool          `yaml:"first_solution_only"`
	Hard                bool          `yaml:"hard"`
	MaxSlotsPerEmployee int           `yaml:"max_slots_per_employee" validate:"gte=0"`
}

var validate = validator.New()

// Default возвращает значения по умолчанию; параметры LNS совпадают с lns.DefaultConfig.
func Default() File {
	d := lns.DefaultConfig()
	return File{
		Instance: InstanceConfig{
			Random: RandomConfig{
				Slots:     30,
				Employees: 20,
				Skills:    10,
				SkillProb: 0.3,
				MaxDemand: 5,
				Seed:      777,
			},
		},
		LNS: LNSConfig{
			FixProbability:      d.FixProbability,
			FailureLimit:        d.FailureLimit,
			Iterations:          d.Iterations,
			InitFailureLimit:    d.InitFailureLimit,
			InitTimeLimit:       d.InitTimeLimit,
			TimeLimit:           d.TimeLimit,
			FirstSolutionOnly:   d.FirstSolutionOnly,
			Hard:                d.Hard,
			MaxSlotsPerEmployee: d.MaxSlotsPerEmployee,
		},
		Seed:     1000,
		LogLevel: "info",
	}
}

// Load читает YAML поверх Default и проверяет результат.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode делает то же, что Load, но из потока. Неизвестные ключи считаются ошибкой.
func Decode(r io.Reader) (File, error) {
	f := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode config: %w", err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

func (f File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return f.LNSConfig().Validate()
}

// LNSConfig переводит секцию lns в конфигурацию решателя.
func (f File) LNSConfig() lns.Config {
	return lns.Config{
		FixProbability:      f.LNS.FixProbability,
		FailureLimit:        f.LNS.FailureLimit,
		Iterations:          f.LNS.Iterations,
		InitFailureLimit:    f.LNS.InitFailureLimit,
		InitTimeLimit:       f.LNS.InitTimeLimit,
		TimeLimit:           f.LNS.TimeLimit,
		FirstSolutionOnly:   f.LNS.FirstSolutionOnly,
		Hard:                f.LNS.Hard,
		MaxSlotsPerEmployee: f.LNS.MaxSlotsPerEmployee,
	}
}

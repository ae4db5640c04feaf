// Package config loads the application configuration.
//
// Values are layered: built-in defaults, then the YAML file, then FLEX_*
// environment variables (FLEX_SERVER_PORT overrides server.port). A .env
// file in the working directory is loaded into the environment first.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/solinor/solinor-invoice-checking-sub000/flex"
	"github.com/solinor/solinor-invoice-checking-sub000/generic"
)

const envPrefix = "FLEX_"

type Application struct {
	Server     Server     `koanf:"server"`
	Database   Database   `koanf:"db"`
	Log        Log        `koanf:"log"`
	Flex       Flex       `koanf:"flex"`
	KIKY       KIKY       `koanf:"kiky"`
	Attendance Attendance `koanf:"attendance"`
}

type Server struct {
	Port           int      `koanf:"port"`
	AllowedOrigins []string `koanf:"allowedorigins"`
}

type Database struct {
	Path string `koanf:"path"`
}

type Log struct {
	Level string `koanf:"level"`
}

type Flex struct {
	Workday         float64       `koanf:"workday"`
	HolidayCacheTTL time.Duration `koanf:"holidaycachettl"`
	Concurrency     int           `koanf:"concurrency"`
}

type KIKY struct {
	Project      string  `koanf:"project"`
	Epoch        string  `koanf:"epoch"`
	Launch       string  `koanf:"launch"`
	MonthlyHours float64 `koanf:"monthlyhours"`
}

type Attendance struct {
	UnsubmittedStatus string `koanf:"unsubmittedstatus"`
	WorkMarker        string `koanf:"workmarker"`
	FlexLeaveType     string `koanf:"flexleavetype"`
	UnpaidLeaveType   string `koanf:"unpaidleavetype"`
	OvertimePhase     string `koanf:"overtimephase"`
}

// Defaults returns the built-in configuration.
func Defaults() Application {
	rules := flex.DefaultAttendanceRules()
	return Application{
		Server: Server{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Database: Database{Path: "flex.db"},
		Log:      Log{Level: "info"},
		Flex: Flex{
			Workday:         7.5,
			HolidayCacheTTL: 5 * time.Minute,
			Concurrency:     8,
		},
		KIKY: KIKY{
			Project:      "KIKY",
			Epoch:        "2017-01-01",
			Launch:       "2017-01-01",
			MonthlyHours: 2,
		},
		Attendance: Attendance{
			UnsubmittedStatus: rules.UnsubmittedStatus,
			WorkMarker:        rules.WorkMarker,
			FlexLeaveType:     rules.FlexLeaveType,
			UnpaidLeaveType:   rules.UnpaidLeaveType,
			OvertimePhase:     rules.OvertimePhase,
		},
	}
}

func Load(path string) (Application, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Unable to load .env file: %v", err)
	}

	var k = koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if os.IsNotExist(err) {
				log.Infof("Config file not found at %s, using defaults and environment variables", path)
			} else {
				log.Errorf("error loading config from YAML: %v", err)
				return Application{}, err
			}
		} else {
			log.Infof("Loaded configuration from file: %s", path)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// Settings converts the flex sections into calculation settings.
func (a Application) Settings() (flex.Settings, error) {
	epoch, err := generic.ParseDate(a.KIKY.Epoch)
	if err != nil {
		return flex.Settings{}, fmt.Errorf("kiky.epoch: %w", err)
	}
	launch, err := generic.ParseDate(a.KIKY.Launch)
	if err != nil {
		return flex.Settings{}, fmt.Errorf("kiky.launch: %w", err)
	}
	if a.Flex.Workday <= 0 {
		return flex.Settings{}, fmt.Errorf("flex.workday must be positive, got %v", a.Flex.Workday)
	}

	return flex.Settings{
		StandardWorkday: generic.Hours(a.Flex.Workday),
		Attendance: flex.AttendanceRules{
			UnsubmittedStatus: a.Attendance.UnsubmittedStatus,
			WorkMarker:        a.Attendance.WorkMarker,
			FlexLeaveType:     a.Attendance.FlexLeaveType,
			UnpaidLeaveType:   a.Attendance.UnpaidLeaveType,
			OvertimePhase:     a.Attendance.OvertimePhase,
			ExcludedProject:   a.KIKY.Project,
		},
		KIKY: flex.KIKYProgram{
			Project:      a.KIKY.Project,
			Epoch:        epoch,
			Launch:       launch,
			MonthlyHours: decimal.NewFromFloat(a.KIKY.MonthlyHours),
		},
	}, nil
}

// ConfigureLogging applies the configured log level. LOG_LEVEL wins when set.
func (a Application) ConfigureLogging() {
	level := a.Log.Level
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}

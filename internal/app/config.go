package app

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/specialistvlad/nodeflow/internal/model"
)

// DefaultSeed is the start node's input when none is given.
var DefaultSeed = model.Payload{"initialValue": "hello world"}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkflowPath string `validate:"required"` // .hcl or .json files
	Seed         model.Payload

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	HealthcheckPort int    `validate:"min=0,max=65535"`

	FeedPort int    `validate:"min=0,max=65535"`
	FeedURL  string `validate:"omitempty,url"`

	StepDelay    time.Duration `validate:"min=0"`
	MaxDepth     int           `validate:"min=0"`
	ProxyBaseURL string        `validate:"omitempty,url"`
	HTTPTimeout  time.Duration `validate:"min=0"`

	StorePath string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = LogFormatText
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Seed == nil {
		cfg.Seed = DefaultSeed.Clone()
	}
	return &cfg, nil
}

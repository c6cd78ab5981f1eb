package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reactivity/internal/errors"
)

// FileNames are the configuration file names Load looks for, in order.
var FileNames = []string{"reactivity.yaml", "reactivity.yml", "reactivity.json"}

const (
	// DefaultAddr is the default devtools listen address.
	DefaultAddr = "127.0.0.1:7070"

	// DefaultNamespace is the default Prometheus namespace.
	DefaultNamespace = "reactivity"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "reactivity"
)

var validate = validator.New()

// Config is the complete configuration.
type Config struct {
	// Log configures the process logger.
	Log LogConfig `json:"log" yaml:"log"`

	// Devtools configures the inspection server.
	Devtools DevtoolsConfig `json:"devtools" yaml:"devtools"`

	// Metrics configures the Prometheus observer.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing configures the OpenTelemetry observer.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Snapshot configures snapshot export.
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`

	// Format is the handler format: text or json.
	Format string `json:"format" yaml:"format" validate:"oneof=text json"`
}

// DevtoolsConfig contains inspection server settings.
type DevtoolsConfig struct {
	// Addr is the host:port to listen on.
	Addr string `json:"addr" yaml:"addr" validate:"required,hostname_port"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Namespace string `json:"namespace" yaml:"namespace" validate:"required_if=Enabled true,excludesall=-."`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	TracerName string `json:"tracerName" yaml:"tracerName" validate:"required_if=Enabled true"`
}

// SnapshotConfig contains snapshot export settings. Bucket takes precedence
// over Dir when both are set.
type SnapshotConfig struct {
	// Dir is the local directory snapshots are written to.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Bucket is the S3 bucket snapshots are uploaded to.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`

	// Prefix is the object key prefix inside Bucket.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Region is the bucket region.
	Region string `json:"region,omitempty" yaml:"region,omitempty" validate:"required_with=Bucket"`

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" validate:"omitempty,url"`

	// PathStyle enables path-style bucket addressing.
	PathStyle bool `json:"pathStyle,omitempty" yaml:"pathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Devtools: DevtoolsConfig{
			Addr: DefaultAddr,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Find returns the path of the first configuration file in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Load reads configuration from the specified directory.
func Load(dir string) (*Config, error) {
	path, ok := Find(dir)
	if !ok {
		return nil, errors.New("E100").
			WithDetail("No reactivity.yaml or reactivity.json found in " + dir).
			WithSuggestion("Create reactivity.yaml or pass --config")
	}
	return LoadFile(path)
}

// LoadFile reads configuration from the specified file path. The format is
// chosen by extension: .json is JSON, anything else YAML.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No config file at " + path)
		}
		return nil, errors.New("E101").Wrap(err)
	}

	return parseFile(path, data)
}

// parseFile parses data read from path. Decode errors are located in the
// file so they print with the surrounding lines.
func parseFile(path string, data []byte) (*Config, error) {
	cfg, err := Parse(data, formatOf(path))
	if err != nil {
		var coded *errors.Error
		if errors.As(err, &coded) && coded.Code == "E101" && coded.Wrapped != nil {
			if line, col := errorPosition(coded.Wrapped, data); line > 0 {
				coded.WithLocation(path, line, col)
			}
		}
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// errorPosition returns the 1-based line and column a decode error points
// at. Column is zero when only the line is known; both are zero when the
// decoder reported neither.
func errorPosition(err error, data []byte) (line, col int) {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return offsetPosition(data, syntaxErr.Offset)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return offsetPosition(data, typeErr.Offset)
	}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, 0
	}
	return 0, 0
}

func offsetPosition(data []byte, offset int64) (line, col int) {
	off := int(min(max(offset, 0), int64(len(data))))
	before := data[:off]
	line = bytes.Count(before, []byte("\n")) + 1
	col = max(off-(bytes.LastIndexByte(before, '\n')+1), 1)
	return line, col
}

// Parse decodes data in the given format ("json" or "yaml") over the
// defaults and validates the result.
func Parse(data []byte, format string) (*Config, error) {
	cfg := New()
	var err error
	if format == "json" {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse config: " + err.Error()).
			WithSuggestion("Check that the file is valid " + strings.ToUpper(format)).
			Wrap(err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path, in the format
// implied by its extension.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if formatOf(path) == "json" {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return errors.New("E101").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Devtools.Addr == "" {
		c.Devtools.Addr = DefaultAddr
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.New("E102").Wrap(err)
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			problems = append(problems, field+" failed "+fe.Tag()+"="+fe.Param())
		} else {
			problems = append(problems, field+" failed "+fe.Tag())
		}
	}
	return errors.New("E102").
		WithDetail(strings.Join(problems, "; ")).
		Wrap(err)
}

// SlogLevel returns the configured level. Unknown values map to Info.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func formatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

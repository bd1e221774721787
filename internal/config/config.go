package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-bfm/internal/fileutil"
	"github.com/alnah/go-bfm/internal/grammar"
	"github.com/alnah/go-bfm/internal/hostmd"
	"github.com/alnah/go-bfm/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound        = errors.New("config file not found")
	ErrEmptyConfigName       = errors.New("config name cannot be empty")
	ErrConfigParse           = errors.New("failed to parse config")
	ErrFieldTooLong          = errors.New("field exceeds maximum length")
	ErrInvalidTOCDepth       = errors.New("toc depth must be between 1 and 6")
	ErrInvalidWordsPerMinute = errors.New("words per minute must be positive")
	ErrInvalidDirectiveName  = errors.New("invalid directive name")
	ErrUnknownHostExtension  = hostmd.ErrUnknownHostExtension
)

// Field length limits.
const (
	MaxDirectiveNameLength = 32
	MaxCodeStyleLength     = 50
	MaxPathLength          = 4096
	MaxDirectiveNames      = 64
)

// Defaults.
const (
	DefaultName           = "bfm"
	DefaultTOCDepth       = 3
	DefaultWordsPerMinute = 200
)

// Config holds the grammar set and processing defaults.
type Config struct {
	Features       FeaturesConfig   `yaml:"features"`
	Directives     DirectivesConfig `yaml:"directives"`
	HostExtensions []string         `yaml:"hostExtensions"`
	TOC            TOCConfig        `yaml:"toc"`
	Metadata       MetadataConfig   `yaml:"metadata"`
	Render         RenderConfig     `yaml:"render"`
	Output         OutputConfig     `yaml:"output"`
}

// FeaturesConfig toggles the BFM construct families.
type FeaturesConfig struct {
	Directives bool `yaml:"directives"`
	Footnotes  bool `yaml:"footnotes"`
	Tasks      bool `yaml:"tasks"`
	Modifiers  bool `yaml:"modifiers"`
	Mentions   bool `yaml:"mentions"`
	Hashtags   bool `yaml:"hashtags"`
}

// DirectivesConfig adds names to the built-in allow-list.
type DirectivesConfig struct {
	Containers []string `yaml:"containers"`
	Leaves     []string `yaml:"leaves"`
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Depth int `yaml:"depth"` // 1-6, default 3
}

// MetadataConfig defines metadata extraction options.
type MetadataConfig struct {
	WordsPerMinute int `yaml:"wordsPerMinute"`
}

// RenderConfig defines HTML output options.
type RenderConfig struct {
	Unsafe    bool   `yaml:"unsafe"`
	CodeStyle string `yaml:"codeStyle"` // chroma style name
	CSS       string `yaml:"css"`       // stylesheet path for --page output
	Style     string `yaml:"style"`     // page style name, "none" disables
	StyleDir  string `yaml:"styleDir"`  // directory of custom {name}.css styles
	Title     string `yaml:"title"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = stdout)
}

// DefaultConfig returns the built-in configuration: every feature on, the
// default host extensions, TOC depth 3 and 200 words per minute.
func DefaultConfig() *Config {
	return &Config{
		Features: FeaturesConfig{
			Directives: true,
			Footnotes:  true,
			Tasks:      true,
			Modifiers:  true,
			Mentions:   true,
			Hashtags:   true,
		},
		HostExtensions: slices.Clone(hostmd.DefaultHostExtensions),
		TOC:            TOCConfig{Depth: DefaultTOCDepth},
		Metadata:       MetadataConfig{WordsPerMinute: DefaultWordsPerMinute},
	}
}

// Validate checks ranges, names and field lengths. Called automatically by
// LoadConfig, but available for configs built in code.
func (c *Config) Validate() error {
	if c.TOC.Depth < 1 || c.TOC.Depth > 6 {
		return fmt.Errorf("%w: toc.depth = %d", ErrInvalidTOCDepth, c.TOC.Depth)
	}
	if c.Metadata.WordsPerMinute <= 0 {
		return fmt.Errorf("%w: metadata.wordsPerMinute = %d", ErrInvalidWordsPerMinute, c.Metadata.WordsPerMinute)
	}
	if err := validateNames("directives.containers", c.Directives.Containers); err != nil {
		return err
	}
	if err := validateNames("directives.leaves", c.Directives.Leaves); err != nil {
		return err
	}
	known := hostmd.HostExtensions()
	for i, name := range c.HostExtensions {
		if !slices.Contains(known, name) {
			return fmt.Errorf("%w: hostExtensions[%d] = %q (known: %s)",
				ErrUnknownHostExtension, i, name, strings.Join(known, ", "))
		}
	}
	if err := validateFieldLength("render.codeStyle", c.Render.CodeStyle, MaxCodeStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.css", c.Render.CSS, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.style", c.Render.Style, MaxCodeStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.styleDir", c.Render.StyleDir, MaxPathLength); err != nil {
		return err
	}
	return validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength)
}

func validateNames(field string, names []string) error {
	if len(names) > MaxDirectiveNames {
		return fmt.Errorf("%w: %s has %d names (max %d)", ErrInvalidDirectiveName, field, len(names), MaxDirectiveNames)
	}
	for i, name := range names {
		path := fmt.Sprintf("%s[%d]", field, i)
		if err := validateFieldLength(path, name, MaxDirectiveNameLength); err != nil {
			return err
		}
		if !grammar.ValidName(name) {
			return fmt.Errorf("%w: %s = %q (lowercase letters only)", ErrInvalidDirectiveName, path, name)
		}
		if name == grammar.NameCallout || name == grammar.NameEmbed {
			return fmt.Errorf("%w: %s = %q is reserved", ErrInvalidDirectiveName, path, name)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Feature returns the enabled construct families as a parser feature set.
func (c *Config) Feature() hostmd.Feature {
	var f hostmd.Feature
	flags := []struct {
		on  bool
		bit hostmd.Feature
	}{
		{c.Features.Directives, hostmd.FeatureDirectives},
		{c.Features.Footnotes, hostmd.FeatureFootnotes},
		{c.Features.Tasks, hostmd.FeatureTasks},
		{c.Features.Modifiers, hostmd.FeatureModifiers},
		{c.Features.Mentions, hostmd.FeatureMentions},
		{c.Features.Hashtags, hostmd.FeatureHashtags},
	}
	for _, fl := range flags {
		if fl.on {
			f |= fl.bit
		}
	}
	return f
}

// Grammar returns the parser configuration: the default directive names
// plus the configured extras, the enabled features and host extensions.
func (c *Config) Grammar() hostmd.Grammar {
	return hostmd.Grammar{
		Directives: grammar.NewDirectives(
			withDefaults(grammar.DefaultContainers, c.Directives.Containers),
			withDefaults(grammar.DefaultLeaves, c.Directives.Leaves),
		),
		Features:       c.Feature(),
		HostExtensions: slices.Clone(c.HostExtensions),
	}
}

func withDefaults(defaults, extra []string) []string {
	names := slices.Clone(defaults)
	for _, name := range extra {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their defaults. Unknown fields are
// rejected.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yamlutil.DecodeStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\") || strings.HasSuffix(s, ".yaml") || strings.HasSuffix(s, ".yml")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-bfm/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-bfm", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

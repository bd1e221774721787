package bfm

import (
	"log/slog"
	"slices"

	"github.com/alnah/go-bfm/internal/config"
	"github.com/alnah/go-bfm/internal/merge"
	"github.com/alnah/go-bfm/internal/metadata"
	"github.com/alnah/go-bfm/internal/resolve"
)

// Config is the grammar set and processing defaults. Build one with
// DefaultConfig or LoadConfig.
type Config = config.Config

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config { return config.DefaultConfig() }

// LoadConfig reads a YAML configuration by path, or by name from the current
// directory and the user config directory.
func LoadConfig(nameOrPath string) (*Config, error) { return config.LoadConfig(nameOrPath) }

// Metadata types.
type (
	Metadata              = metadata.Metadata
	Computed              = metadata.Computed
	Task                  = metadata.Task
	Link                  = metadata.Link
	ComputedFieldResolver = metadata.ComputedFieldResolver
)

// Resolver types.
type (
	EmbedResolver   = resolve.EmbedResolver
	MentionResolver = resolve.MentionResolver
	EmbedResult     = resolve.EmbedResult
	MentionResult   = resolve.MentionResult
	EmbedFunc       = resolve.EmbedFunc
	MentionFunc     = resolve.MentionFunc
	ResolveReport   = resolve.Report
)

// Merge types.
type (
	MergeStrategy      = merge.Strategy
	MergeResolver      = merge.Resolver
	MergeConflictError = merge.ConflictError
)

// Merge strategies.
const (
	MergeLastWins  = merge.LastWins
	MergeFirstWins = merge.FirstWins
	MergeError     = merge.Error
)

// ParseMergeStrategy parses "last", "first" or "error".
func ParseMergeStrategy(s string) (MergeStrategy, error) { return merge.ParseStrategy(s) }

// MergeOptions configures Processor.Merge. The zero value uses
// MergeLastWins and a blank-line separator.
type MergeOptions struct {
	Strategy MergeStrategy
	// Resolver decides conflicts instead of Strategy when set.
	Resolver MergeResolver
	// Separator joins bodies. Empty means a blank line.
	Separator string
}

// Option configures a Processor.
type Option func(*processorConfig)

// processorConfig collects options before New assembles the Processor.
type processorConfig struct {
	base           *Config
	containers     []string
	leaves         []string
	tocDepth       int
	wordsPerMinute int
	logger         *slog.Logger
	embed          EmbedResolver
	mention        MentionResolver
	resolveLimit   int
	strictResolve  bool
	computed       []ComputedFieldResolver
	maxInputSize   int
}

// defaultMaxInputSize bounds a single source document.
const defaultMaxInputSize = 10 << 20

// WithConfig sets the base configuration. Other options apply on top of it
// regardless of order.
func WithConfig(cfg *Config) Option {
	return func(c *processorConfig) {
		c.base = cfg
	}
}

// WithLogger sets the logger for debug events. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *processorConfig) {
		c.logger = l
	}
}

// WithContainers adds container directive names to the allow-list.
func WithContainers(names ...string) Option {
	return func(c *processorConfig) {
		c.containers = append(c.containers, names...)
	}
}

// WithLeaves adds leaf directive names to the allow-list.
func WithLeaves(names ...string) Option {
	return func(c *processorConfig) {
		c.leaves = append(c.leaves, names...)
	}
}

// WithTOCDepth sets the default depth of toc directives (1-6).
func WithTOCDepth(depth int) Option {
	return func(c *processorConfig) {
		c.tocDepth = depth
	}
}

// WithWordsPerMinute sets the reading speed used for reading time.
func WithWordsPerMinute(wpm int) Option {
	return func(c *processorConfig) {
		c.wordsPerMinute = wpm
	}
}

// WithEmbedResolver enables the embed post-pass in Process.
func WithEmbedResolver(r EmbedResolver) Option {
	return func(c *processorConfig) {
		c.embed = r
	}
}

// WithMentionResolver enables the mention post-pass in Process.
func WithMentionResolver(r MentionResolver) Option {
	return func(c *processorConfig) {
		c.mention = r
	}
}

// WithResolverLimit bounds concurrent resolver calls per document.
func WithResolverLimit(n int) Option {
	return func(c *processorConfig) {
		c.resolveLimit = n
	}
}

// WithStrictResolvers makes resolver failures fail Process instead of
// falling back to the neutral binding.
func WithStrictResolvers() Option {
	return func(c *processorConfig) {
		c.strictResolve = true
	}
}

// WithComputedField adds a custom metadata resolver. Resolvers run in the
// order they were added; later keys win.
func WithComputedField(fn ComputedFieldResolver) Option {
	return func(c *processorConfig) {
		c.computed = append(c.computed, fn)
	}
}

// WithMaxInputSize bounds the size of a source document in bytes.
// Panics if n <= 0 (programmer error, similar to time.NewTicker).
func WithMaxInputSize(n int) Option {
	if n <= 0 {
		panic("bfm: WithMaxInputSize size must be positive")
	}
	return func(c *processorConfig) {
		c.maxInputSize = n
	}
}

// resolveConfig applies the collected options to a copy of the base config.
func (c *processorConfig) resolveConfig() *Config {
	base := c.base
	if base == nil {
		base = DefaultConfig()
	}
	cfg := *base
	cfg.HostExtensions = slices.Clone(base.HostExtensions)
	cfg.Directives.Containers = append(slices.Clone(base.Directives.Containers), c.containers...)
	cfg.Directives.Leaves = append(slices.Clone(base.Directives.Leaves), c.leaves...)
	if c.tocDepth != 0 {
		cfg.TOC.Depth = c.tocDepth
	}
	if c.wordsPerMinute != 0 {
		cfg.Metadata.WordsPerMinute = c.wordsPerMinute
	}
	return &cfg
}

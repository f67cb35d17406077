// Package config provides configuration file support for buildwatch.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"github.com/richhaase/buildwatch/internal/extract"
	"github.com/richhaase/buildwatch/internal/filter"
	"github.com/richhaase/buildwatch/internal/git"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = ".buildwatch.yaml"

// Duration handles YAML duration parsing.
// Supports both Go duration format ("5m", "300s") and numeric seconds.
type Duration time.Duration

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "invalid duration %q", v)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case float64:
		*d = Duration(v * float64(time.Second))
	default:
		return errors.Newf("invalid duration type: %T", v)
	}
	return nil
}

// AsDuration returns the underlying time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// Config represents the buildwatch configuration file.
type Config struct {
	Extractor *string      `yaml:"extractor"`
	Overlap   *int         `yaml:"overlap"`
	Command   *string      `yaml:"command"`
	Args      []string     `yaml:"args"`
	Workdir   *string      `yaml:"workdir"`
	Timeout   *Duration    `yaml:"timeout"`
	Quiet     *bool        `yaml:"quiet"`
	Report    *string      `yaml:"report"`
	Filters   FilterConfig `yaml:"filters"`
}

// FilterConfig holds display filter configuration.
type FilterConfig struct {
	ExcludePatterns []string `yaml:"exclude_patterns"`
	ExcludeFiles    []string `yaml:"exclude_files"`
}

// LoadResult contains the loaded config and any warnings encountered.
type LoadResult struct {
	Config   *Config
	Path     string
	Warnings []string
}

// LoadWithWarnings reads .buildwatch.yaml from the git root containing dir,
// falling back to dir itself outside a repository.
// Returns an empty config (not error) if the file doesn't exist.
func LoadWithWarnings(dir string) (*LoadResult, error) {
	root, err := git.GetRoot(dir)
	if err != nil {
		root = dir
	}
	return LoadFromDirWithWarnings(root)
}

// LoadFromDirWithWarnings reads .buildwatch.yaml from the specified directory.
func LoadFromDirWithWarnings(dir string) (*LoadResult, error) {
	return LoadFromPathWithWarnings(filepath.Join(dir, ConfigFileName))
}

// LoadFromPathWithWarnings reads a config file and returns warnings for unknown keys.
// Returns an empty config (not error) if the file doesn't exist.
// Returns an error if the file exists but is invalid YAML or fails validation.
func LoadFromPathWithWarnings(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &LoadResult{Config: &Config{}, Path: path}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	warnings := checkUnknownKeys(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "invalid %s", ConfigFileName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, ConfigFileName)
	}

	return &LoadResult{Config: &cfg, Path: path, Warnings: warnings}, nil
}

// knownTopLevelKeys are the valid top-level keys in the config file.
var knownTopLevelKeys = []string{"extractor", "overlap", "command", "args", "workdir", "timeout", "quiet", "report", "filters"}

// knownFilterKeys are the valid keys under the "filters" section.
var knownFilterKeys = []string{"exclude_patterns", "exclude_files"}

// checkUnknownKeys checks for unknown keys in the YAML data and returns warnings.
func checkUnknownKeys(data []byte) []string {
	var warnings []string

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		// Let the main parser report the error
		return nil
	}

	for key := range raw {
		if !slices.Contains(knownTopLevelKeys, key) {
			warning := fmt.Sprintf("unknown key %q in %s", key, ConfigFileName)
			if suggestion := findSimilar(key, knownTopLevelKeys); suggestion != "" {
				warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
			}
			warnings = append(warnings, warning)
		}
	}

	if filters, ok := raw["filters"].(map[string]any); ok {
		for key := range filters {
			if !slices.Contains(knownFilterKeys, key) {
				warning := fmt.Sprintf("unknown key %q in filters section of %s", key, ConfigFileName)
				if suggestion := findSimilar(key, knownFilterKeys); suggestion != "" {
					warning += fmt.Sprintf(" (did you mean %q?)", suggestion)
				}
				warnings = append(warnings, warning)
			}
		}
	}

	slices.Sort(warnings)
	return warnings
}

// findSimilar finds the most similar string from candidates using Levenshtein distance.
// Returns empty string if no candidate is within 3 edits.
func findSimilar(input string, candidates []string) string {
	const maxDistance = 3
	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		dist := levenshtein(input, candidate)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// CommandLine returns the configured command split into argv, followed by args.
func (c *Config) CommandLine() ([]string, error) {
	var argv []string
	if c.Command != nil && *c.Command != "" {
		words, err := shellquote.Split(*c.Command)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid command %q", *c.Command)
		}
		argv = words
	}
	return append(argv, c.Args...), nil
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	if c.Overlap != nil && *c.Overlap < 0 {
		return errors.Newf("overlap must be >= 0, got %d", *c.Overlap)
	}
	if c.Timeout != nil && *c.Timeout <= 0 {
		return errors.Newf("timeout must be > 0, got %s", time.Duration(*c.Timeout))
	}
	if c.Extractor != nil {
		if _, err := extract.Default().Lookup(*c.Extractor); err != nil {
			return errors.Wrap(err, "extractor")
		}
	}
	if _, err := c.CommandLine(); err != nil {
		return err
	}
	if _, err := filter.New(c.Filters.ExcludePatterns, c.Filters.ExcludeFiles); err != nil {
		return errors.Wrap(err, "filters")
	}
	return nil
}

// MergeFilters combines config file filters with CLI filters.
// CLI values are appended after config values (both are applied).
func MergeFilters(cfg *Config, cliPatterns, cliFiles []string) (patterns, files []string) {
	if cfg == nil {
		return cliPatterns, cliFiles
	}
	patterns = append(slices.Clone(cfg.Filters.ExcludePatterns), cliPatterns...)
	files = append(slices.Clone(cfg.Filters.ExcludeFiles), cliFiles...)
	return patterns, files
}

// Defaults holds the built-in default values.
var Defaults = ResolvedConfig{
	Extractor: extract.DefaultExtractor,
	Overlap:   -1, // use the extractor's own default
}

// ResolvedConfig holds the final resolved configuration values.
type ResolvedConfig struct {
	Extractor string
	// Overlap < 0 means the extractor's default.
	Overlap int
	Command []string
	Workdir string
	// Timeout 0 means no limit.
	Timeout time.Duration
	Quiet   bool
	Report  string
}

// ValidateAll checks resolved values and returns every problem found.
func (r ResolvedConfig) ValidateAll() []string {
	var errs []string
	if _, err := extract.Default().Lookup(r.Extractor); err != nil {
		errs = append(errs, err.Error())
	}
	if r.Timeout < 0 {
		errs = append(errs, fmt.Sprintf("timeout must be >= 0, got %s", r.Timeout))
	}
	return errs
}

// FlagState tracks whether a flag was explicitly set.
type FlagState struct {
	ExtractorSet bool
	OverlapSet   bool
	WorkdirSet   bool
	TimeoutSet   bool
	QuietSet     bool
	ReportSet    bool
}

// EnvState captures env var values and whether they were set.
type EnvState struct {
	Extractor    string
	ExtractorSet bool
	Overlap      int
	OverlapSet   bool
	Workdir      string
	WorkdirSet   bool
	Timeout      time.Duration
	TimeoutSet   bool
}

// LoadEnvState reads BUILDWATCH_* environment variables. Values that do not
// parse are ignored and reported as warnings.
func LoadEnvState() (EnvState, []string) {
	var state EnvState
	var warnings []string

	if v := os.Getenv("BUILDWATCH_EXTRACTOR"); v != "" {
		state.Extractor = v
		state.ExtractorSet = true
	}
	if v := os.Getenv("BUILDWATCH_OVERLAP"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			state.Overlap = i
			state.OverlapSet = true
		} else {
			warnings = append(warnings, fmt.Sprintf("ignoring BUILDWATCH_OVERLAP=%q: not a non-negative integer", v))
		}
	}
	if v := os.Getenv("BUILDWATCH_WORKDIR"); v != "" {
		state.Workdir = v
		state.WorkdirSet = true
	}
	if v := os.Getenv("BUILDWATCH_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			state.Timeout = d
			state.TimeoutSet = true
		} else if secs, err := strconv.Atoi(v); err == nil {
			state.Timeout = time.Duration(secs) * time.Second
			state.TimeoutSet = true
		} else {
			warnings = append(warnings, fmt.Sprintf("ignoring BUILDWATCH_TIMEOUT=%q: not a duration", v))
		}
	}

	return state, warnings
}

// Resolve merges config file values with env vars and flags.
// Precedence: flags > env vars > config file > defaults.
// A command given on the command line replaces the configured one entirely.
func Resolve(cfg *Config, envState EnvState, flagState FlagState, flagValues ResolvedConfig) (ResolvedConfig, error) {
	result := Defaults

	if cfg != nil {
		if cfg.Extractor != nil {
			result.Extractor = *cfg.Extractor
		}
		if cfg.Overlap != nil {
			result.Overlap = *cfg.Overlap
		}
		argv, err := cfg.CommandLine()
		if err != nil {
			return ResolvedConfig{}, err
		}
		result.Command = argv
		if cfg.Workdir != nil {
			result.Workdir = *cfg.Workdir
		}
		if cfg.Timeout != nil {
			result.Timeout = cfg.Timeout.AsDuration()
		}
		if cfg.Quiet != nil {
			result.Quiet = *cfg.Quiet
		}
		if cfg.Report != nil {
			result.Report = *cfg.Report
		}
	}

	if envState.ExtractorSet {
		result.Extractor = envState.Extractor
	}
	if envState.OverlapSet {
		result.Overlap = envState.Overlap
	}
	if envState.WorkdirSet {
		result.Workdir = envState.Workdir
	}
	if envState.TimeoutSet {
		result.Timeout = envState.Timeout
	}

	if flagState.ExtractorSet {
		result.Extractor = flagValues.Extractor
	}
	if flagState.OverlapSet {
		result.Overlap = flagValues.Overlap
	}
	if flagState.WorkdirSet {
		result.Workdir = flagValues.Workdir
	}
	if flagState.TimeoutSet {
		result.Timeout = flagValues.Timeout
	}
	if flagState.QuietSet {
		result.Quiet = flagValues.Quiet
	}
	if flagState.ReportSet {
		result.Report = flagValues.Report
	}
	if len(flagValues.Command) > 0 {
		result.Command = flagValues.Command
	}

	return result, nil
}

// Package config loads the report configuration file that names the
// directories, files, and pattern searches a snapshot is built from.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/projcat/projcat/internal/types"
)

const (
	// DefaultFileName is the configuration file used when none is specified.
	DefaultFileName = "proj.yml"

	errorStatFormat   = "stat configuration %s: %w"
	errorIsDirFormat  = "configuration path %s is a directory"
	errorReadFormat   = "read configuration from %s: %w"
	errorDecodeFormat = "decode configuration from %s: %w"
)

// ReportConfiguration describes one snapshot run: directories to tree-render,
// explicit files to include, pattern-based file searches, and an optional
// ignore file.
type ReportConfiguration struct {
	Dirs       []string        `mapstructure:"dirs"`
	Files      []string        `mapstructure:"files"`
	RegexFiles []RegexFileRule `mapstructure:"regexfiles"`
	Gitignore  string          `mapstructure:"gitignore"`
}

// RegexFileRule mirrors one regexfiles entry. Subdirs defaults to true when
// omitted, which is why it is a pointer here.
type RegexFileRule struct {
	Dir     string `mapstructure:"dir"`
	Pattern string `mapstructure:"pattern"`
	Subdirs *bool  `mapstructure:"subdirs"`
}

// Load reads and decodes the configuration at configurationPath. A
// configuration that cannot be read or decoded is the only fatal error class
// in the application: the caller aborts the run on a non-nil error.
func Load(configurationPath string) (ReportConfiguration, error) {
	information, statError := os.Stat(configurationPath)
	if statError != nil {
		return ReportConfiguration{}, fmt.Errorf(errorStatFormat, configurationPath, statError)
	}
	if information.IsDir() {
		return ReportConfiguration{}, fmt.Errorf(errorIsDirFormat, configurationPath)
	}

	reader := viper.New()
	reader.SetConfigFile(configurationPath)
	if readError := reader.ReadInConfig(); readError != nil {
		return ReportConfiguration{}, fmt.Errorf(errorReadFormat, configurationPath, readError)
	}
	var configuration ReportConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ReportConfiguration{}, fmt.Errorf(errorDecodeFormat, configurationPath, decodeError)
	}
	return configuration, nil
}

// SelectionRules converts the decoded regexfiles entries into rules with the
// Subdirs default applied.
func (configuration ReportConfiguration) SelectionRules() []types.RegexRule {
	rules := make([]types.RegexRule, 0, len(configuration.RegexFiles))
	for _, entry := range configuration.RegexFiles {
		recursive := true
		if entry.Subdirs != nil {
			recursive = *entry.Subdirs
		}
		rules = append(rules, types.RegexRule{
			Dir:     entry.Dir,
			Pattern: entry.Pattern,
			Subdirs: recursive,
		})
	}
	return rules
}

// Package core contains the business logic for the praxis workflow engine:
// prompt compilation, context relevance ranking, workflow continuity,
// quality scoring, and the integrated-context orchestrator.
package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/praxiskit/praxis/internal/catalog"
	"github.com/praxiskit/praxis/pkg/models"
)

// validPrefixPattern matches uppercase alphanumeric id prefixes between 1 and 10 characters.
var validPrefixPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// ConfigurationManager loads and validates configuration from the .praxisrc
// file in the base directory.
type ConfigurationManager interface {
	LoadGlobalConfig() (*models.GlobalConfig, error)
	ValidateConfig(cfg *models.GlobalConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .praxisrc resides.
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// configuration files relative to basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// defaultGlobalConfig returns a GlobalConfig populated with sensible defaults.
func defaultGlobalConfig() *models.GlobalConfig {
	return &models.GlobalConfig{
		DefaultFramework:   "design-thinking",
		DefaultMethod:      "zero-shot",
		AccessibilityMode:  false,
		ObservabilityOff:   false,
		Processing:         models.DefaultProcessingOptions(),
		SessionIDPrefix:    "S",
		TransitionIDPrefix: "T",
	}
}

// LoadGlobalConfig reads the .praxisrc file from the base path using Viper.
// If the file does not exist, sensible defaults are returned.
func (cm *viperConfigManager) LoadGlobalConfig() (*models.GlobalConfig, error) {
	cfg := defaultGlobalConfig()

	v := viper.New()
	v.SetConfigName(".praxisrc")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	// Set Viper defaults so missing keys fall back gracefully.
	v.SetDefault("defaults.framework", cfg.DefaultFramework)
	v.SetDefault("defaults.method", cfg.DefaultMethod)
	v.SetDefault("accessibility_mode", cfg.AccessibilityMode)
	v.SetDefault("observability_off", cfg.ObservabilityOff)
	v.SetDefault("processing.max_entries", cfg.Processing.MaxEntries)
	v.SetDefault("processing.relevance_threshold", cfg.Processing.RelevanceThreshold)
	v.SetDefault("processing.prioritize_recent", cfg.Processing.PrioritizeRecent)
	v.SetDefault("ids.session_prefix", cfg.SessionIDPrefix)
	v.SetDefault("ids.transition_prefix", cfg.TransitionIDPrefix)
	v.SetDefault("slack_webhook_url", "")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .praxisrc: %w", err)
	}

	// Map nested YAML keys to flat GlobalConfig fields.
	cfg.DefaultFramework = v.GetString("defaults.framework")
	cfg.DefaultMethod = v.GetString("defaults.method")
	cfg.AccessibilityMode = v.GetBool("accessibility_mode")
	cfg.ObservabilityOff = v.GetBool("observability_off")
	cfg.Processing.MaxEntries = v.GetInt("processing.max_entries")
	cfg.Processing.RelevanceThreshold = v.GetFloat64("processing.relevance_threshold")
	cfg.Processing.PrioritizeRecent = v.GetBool("processing.prioritize_recent")
	cfg.SessionIDPrefix = v.GetString("ids.session_prefix")
	cfg.TransitionIDPrefix = v.GetString("ids.transition_prefix")
	cfg.SlackWebhookURL = v.GetString("slack_webhook_url")

	return cfg, nil
}

// ValidateConfig checks the configuration for invalid values and returns a
// clear error message identifying every problem found.
func (cm *viperConfigManager) ValidateConfig(cfg *models.GlobalConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if cfg.DefaultMethod != "" {
		if _, ok := catalog.Method(cfg.DefaultMethod); !ok {
			errs = append(errs, fmt.Sprintf("defaults.method %q is not a known method", cfg.DefaultMethod))
		}
	}

	if cfg.Processing.MaxEntries < 0 {
		errs = append(errs, fmt.Sprintf("processing.max_entries must be non-negative, got %d", cfg.Processing.MaxEntries))
	}

	if cfg.Processing.RelevanceThreshold < 0 || cfg.Processing.RelevanceThreshold > 1 {
		errs = append(errs, fmt.Sprintf(
			"processing.relevance_threshold %.3f is invalid, must be between 0 and 1",
			cfg.Processing.RelevanceThreshold,
		))
	}

	if cfg.SessionIDPrefix != "" && !validPrefixPattern.MatchString(cfg.SessionIDPrefix) {
		errs = append(errs, fmt.Sprintf(
			"ids.session_prefix %q is invalid, must match [A-Z0-9]{1,10}",
			cfg.SessionIDPrefix,
		))
	}

	if cfg.TransitionIDPrefix != "" && !validPrefixPattern.MatchString(cfg.TransitionIDPrefix) {
		errs = append(errs, fmt.Sprintf(
			"ids.transition_prefix %q is invalid, must match [A-Z0-9]{1,10}",
			cfg.TransitionIDPrefix,
		))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

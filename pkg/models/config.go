package models

// GlobalConfig holds system-wide settings read from .praxisrc via Viper.
type GlobalConfig struct {
	DefaultFramework   string            `yaml:"default_framework" mapstructure:"default_framework"`
	DefaultMethod      string            `yaml:"default_method" mapstructure:"default_method"`
	AccessibilityMode  bool              `yaml:"accessibility_mode" mapstructure:"accessibility_mode"`
	ObservabilityOff   bool              `yaml:"observability_off" mapstructure:"observability_off"`
	Processing         ProcessingOptions `yaml:"processing" mapstructure:"processing"`
	SessionIDPrefix    string            `yaml:"session_id_prefix" mapstructure:"session_id_prefix"`
	TransitionIDPrefix string            `yaml:"transition_id_prefix" mapstructure:"transition_id_prefix"`
	SlackWebhookURL    string            `yaml:"slack_webhook_url,omitempty" mapstructure:"slack_webhook_url"`
}

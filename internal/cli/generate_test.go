package cli

import (
	"testing"

	"github.com/praxiskit/praxis/pkg/models"
)

func TestGenerateProcessingOptions(t *testing.T) {
	origConfig := Config
	origMax := generateMaxEntries
	origThreshold := generateThreshold
	origRecent := generateRecent
	t.Cleanup(func() {
		Config = origConfig
		generateMaxEntries = origMax
		generateThreshold = origThreshold
		generateRecent = origRecent
	})

	Config = &models.GlobalConfig{
		Processing: models.ProcessingOptions{
			MaxEntries:         7,
			RelevanceThreshold: 0.5,
			PrioritizeRecent:   true,
		},
	}

	// Unset flags take the configured defaults.
	generateMaxEntries = 0
	generateThreshold = 0
	generateRecent = true

	opts := generateProcessingOptions()
	if opts.MaxEntries != 7 {
		t.Errorf("expected configured max entries 7, got %d", opts.MaxEntries)
	}
	if opts.RelevanceThreshold != 0.5 {
		t.Errorf("expected configured threshold 0.5, got %.2f", opts.RelevanceThreshold)
	}

	// Explicit flags win over the configuration, independently per field.
	generateMaxEntries = 3
	opts = generateProcessingOptions()
	if opts.MaxEntries != 3 {
		t.Errorf("expected flag max entries 3, got %d", opts.MaxEntries)
	}
	if opts.RelevanceThreshold != 0.5 {
		t.Errorf("expected configured threshold to survive, got %.2f", opts.RelevanceThreshold)
	}

	// Without a loaded config the flags pass through untouched.
	Config = nil
	generateThreshold = 0.25
	opts = generateProcessingOptions()
	if opts.MaxEntries != 3 || opts.RelevanceThreshold != 0.25 {
		t.Errorf("unexpected options without config: %+v", opts)
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Flowmind Engine Configuration

[engine]
# Annualized risk-free rate used for pricing and the probability model
risk_free_rate = 0.05
# Number of samples on the payoff-curve price grid (minimum 200 recommended
# for breakeven precision)
sample_count = 240
# Half-width of the sampled price range as a fraction of spot; widened
# automatically when strikes fall outside it
range_fraction = 0.35

[server]
# HTTP API listen address
addr = "127.0.0.1:8742"

[store]
# Evaluation journal database path (empty string disables the journal)
path = ""

[logging]
# Log level: debug, info, warn, error
level = "info"
# Log to the console
console = true
# Log to a rotating file
file = true
# Log file path (defaults under the config directory when empty)
file_path = ""
# Rotation: max size in MB, number of backups, max age in days
max_size = 100
max_backups = 7
max_age = 30

[ui]
# Enable colored output
color_enabled = true
# Date format
date_format = "02-Jan-2006"
`

// createTemplateConfig writes a commented config template so a first run
// leaves an editable file behind.
func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return nil
}

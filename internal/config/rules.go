package config

import (
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/buslog-visualizer/backend/internal/models"
)

// LoadChannelRules parses a YAML rules file mapping bus/channel pairs
// to display names plus highlight rules for the record table.
func LoadChannelRules(filePath string) (*models.ChannelRules, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadChannelRulesFromReader(file)
}

// LoadChannelRulesFromReader parses rules from an io.Reader.
func LoadChannelRulesFromReader(r io.Reader) (*models.ChannelRules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rules models.ChannelRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, err
	}

	// Highest priority first so the first match wins at lookup time.
	sort.SliceStable(rules.Rules, func(i, j int) bool {
		return rules.Rules[i].Priority > rules.Rules[j].Priority
	})

	return &rules, nil
}

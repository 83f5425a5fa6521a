// Package config defines the settings.json document rigup installs for
// the rig CLI. The document shape is a contract owed to rig and must
// round-trip unchanged apart from the fields rigup deliberately sets.
package config

import (
	"encoding/json"

	"github.com/rigtools/rigup/pkg/errors"
	"github.com/rigtools/rigup/pkg/secret"
)

// DefaultProviderName is the provider rig talks to out of the box
const DefaultProviderName = "rigcloud"

// DefaultBaseURL is the rigcloud API endpoint
const DefaultBaseURL = "https://api.rigcloud.io/v1"

// APIKeyPlaceholder is the reference rig resolves against its own
// environment. The literal secret is never embedded in settings.json.
const APIKeyPlaceholder = "${" + secret.VarName + "}"

// Settings is the top-level settings.json document
type Settings struct {
	Version   string            `json:"version"`
	Provider  ProviderSection   `json:"provider"`
	Models    map[string]Model  `json:"models"`
	Workflows map[string][]Step `json:"workflows"`
	Routing   map[string]string `json:"routing"`
}

// ProviderSection names the default provider and its per-provider
// connection settings.
type ProviderSection struct {
	Default   string              `json:"default"`
	Providers map[string]Provider `json:"providers"`
}

// Provider holds one provider's connection settings
type Provider struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
}

// Model maps a model alias to a provider-specific identifier
type Model struct {
	ID          string  `json:"id"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
}

// Step is one {model, action} entry in a workflow
type Step struct {
	Model  string `json:"model"`
	Action string `json:"action"`
}

// Default returns the versioned settings document rigup installs
func Default(version string) *Settings {
	return &Settings{
		Version: version,
		Provider: ProviderSection{
			Default: DefaultProviderName,
			Providers: map[string]Provider{
				DefaultProviderName: {
					APIKey:  APIKeyPlaceholder,
					BaseURL: DefaultBaseURL,
				},
			},
		},
		Models: map[string]Model{
			"fast": {
				ID:          "rigcloud/swift-2",
				Temperature: 0.3,
				Description: "Low-latency model for quick edits and completions",
			},
			"deep": {
				ID:          "rigcloud/sage-1",
				Temperature: 0.7,
				Description: "Slower, higher-quality model for analysis and review",
			},
		},
		Workflows: map[string][]Step{
			"review": {
				{Model: "fast", Action: "summarize-diff"},
				{Model: "deep", Action: "review-changes"},
			},
			"commit": {
				{Model: "fast", Action: "draft-commit-message"},
			},
		},
		Routing: map[string]string{
			"completion": "fast",
			"chat":       "fast",
			"review":     "deep",
			"analysis":   "deep",
		},
	}
}

// Render marshals the document as indented JSON with a trailing newline
func (s *Settings) Render() ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to marshal settings")
	}
	return append(data, '\n'), nil
}

// Parse reads a settings document back. Status and verify use this to
// inspect an installed file without assuming it is one rigup wrote.
func Parse(data []byte) (*Settings, error) {
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to parse settings")
	}
	return &s, nil
}

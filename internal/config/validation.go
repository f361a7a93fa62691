package config

import (
	"fmt"
	"net/url"
	"strings"
)

type keyRule struct {
	label  string
	prefix string
	minLen int
}

var keyRules = map[string]keyRule{
	ProviderAssemblyAI: {label: "AssemblyAI", minLen: 32},
	ProviderOpenAI:     {label: "OpenAI", prefix: "sk-", minLen: 20},
}

// ValidateAPIKey checks the shape of a provider key. Providers without a
// known format only need a non-empty key.
func ValidateAPIKey(provider, apiKey string) error {
	rule, ok := keyRules[provider]
	if !ok {
		rule = keyRule{label: provider}
	}
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", rule.label)
	}
	if rule.prefix != "" && !strings.HasPrefix(apiKey, rule.prefix) {
		return fmt.Errorf("invalid %s API key format: must start with %q", rule.label, rule.prefix)
	}
	if len(apiKey) < rule.minLen {
		return fmt.Errorf("invalid %s API key format: too short", rule.label)
	}
	return nil
}

// ValidateURL requires an absolute http(s) URL with a host
func ValidateURL(raw, name string) error {
	if raw == "" {
		return fmt.Errorf("%s URL is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s URL is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}
	if u.Host == "" {
		return fmt.Errorf("%s URL has no host", name)
	}
	return nil
}

package config

import (
	"encoding/json"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"

	"extsort/internal/errors"
	"extsort/internal/log"
	"extsort/pkg/types"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

// AppName names the configuration directory.
const AppName = "extsort"

// Document is the on-disk shape of a rule configuration:
// a mapping with one required field, rules.
type Document struct {
	Rules []types.Rule `json:"rules" yaml:"rules" toml:"rules"`
}

// DefaultPath returns the well-known configuration location
// ($XDG_CONFIG_HOME/extsort/config.json).
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.json")
}

// Load reads, validates and normalizes the rule set stored at path.
//
// A missing document yields ConfigNotFound, a syntax error ConfigMalformed,
// and any shape problem (top-level not a mapping, no rules list, records of
// the wrong type, unusable folder names) ConfigInvalidStructure. No partial
// rule set is ever returned.
func Load(fs afero.Fs, path string) (types.RuleSet, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return nil, errors.NewConfigError("configuration not found", path, errors.ConfigNotFound, err)
		}
		return nil, errors.NewConfigError("configuration unreadable", path, errors.ConfigUnreadable, err)
	}

	format := formatFor(path)
	raw, err := format.decode(data)
	if err != nil {
		return nil, errors.NewConfigError("configuration malformed", path, errors.ConfigMalformed, err)
	}

	if err := validateShape(raw); err != nil {
		return nil, errors.NewConfigError("invalid configuration structure", path, errors.ConfigInvalidStructure, err)
	}

	// The generic value already passed the schema, so re-encoding it through
	// JSON gives a typed Document regardless of the source format.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, errors.NewConfigError("invalid configuration structure", path, errors.ConfigInvalidStructure, err)
	}
	var doc Document
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, errors.NewConfigError("invalid configuration structure", path, errors.ConfigInvalidStructure, err)
	}

	rules, err := doc.RuleSet()
	if err != nil {
		return nil, errors.NewConfigError("invalid configuration structure", path, errors.ConfigInvalidStructure, err)
	}

	log.LogWithFields(log.F("config", path), log.F("rules", len(rules))).Debug("Configuration loaded")
	return rules, nil
}

// LoadOrCreate loads path, first writing the default document ({rules: []})
// when nothing exists there yet. The freshly written default goes through the
// same validation as any other document. created reports whether the
// default was written.
func LoadOrCreate(fs afero.Fs, path string) (rules types.RuleSet, created bool, err error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, false, errors.NewConfigError("configuration unreadable", path, errors.ConfigUnreadable, err)
	}

	if !exists {
		logger := log.LogWithFields(log.F("config", path))
		logger.Info("Creating default configuration")
		if err := Save(fs, path, nil); err != nil {
			return nil, false, err
		}
		created = true
		logger.Info("Default configuration created")
	}

	rules, err = Load(fs, path)
	if err != nil {
		return nil, created, err
	}
	if created {
		log.LogWithFields(log.F("config", path)).Info("Configuration structure validated")
	}
	return rules, created, nil
}

// Save writes rules to path in the format implied by its extension,
// creating parent directories as needed.
func Save(fs afero.Fs, path string, rules types.RuleSet) error {
	doc := Document{Rules: make([]types.Rule, 0, len(rules))}
	for _, r := range rules {
		if r.Extensions == nil {
			r.Extensions = []string{}
		}
		doc.Rules = append(doc.Rules, r)
	}

	data, err := formatFor(path).encode(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// RuleSet validates the document's records and returns them normalized.
func (d Document) RuleSet() (types.RuleSet, error) {
	rules := make(types.RuleSet, 0, len(d.Rules))
	owner := make(map[string]int)

	for i, r := range d.Rules {
		if err := validateFolderName(r.FolderName); err != nil {
			return nil, fmt.Errorf("rules[%d].folder_name: %w", i, err)
		}
		for j, ext := range r.Extensions {
			if types.NormalizeExtension(ext) == "" {
				return nil, fmt.Errorf("rules[%d].extensions[%d]: %q is not an extension", i, j, ext)
			}
		}

		rule := types.NewRule(r.FolderName, r.Extensions...)
		for _, ext := range rule.Extensions {
			if first, dup := owner[ext]; dup {
				log.LogWithFields(log.F("extension", ext), log.F("rule", i), log.F("first_rule", first)).
					Warn("Extension listed in more than one rule; the first rule wins")
				continue
			}
			owner[ext] = i
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// validateFolderName rejects names that would escape or alias the target directory.
func validateFolderName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("folder name is empty")
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("folder name %q contains a path separator", name)
	case name == "." || name == "..":
		return fmt.Errorf("folder name %q is not allowed", name)
	}
	return nil
}

package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"pni/internal/core/errors"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Options holds the raw skip-rule strings and flags as they arrive from the
// CLI or config file. List entries may themselves be comma-separated.
type Options struct {
	SkipNames            []string
	SkipModules          []string
	SkipNamesFromModules []string

	SkipLocal            bool
	SkipRelative         bool
	DontSkipTest         bool
	DontSkipTypeChecking bool
}

// SkipConfig is the compiled, immutable form of Options. It is safe to share
// across concurrent per-file analyses.
type SkipConfig struct {
	bareNames        map[string]struct{}
	qualifiedNames   map[string]map[string]struct{} // module path -> names
	modules          map[string]struct{}
	namesFromModules map[string]struct{}

	SkipLocal        bool
	SkipRelative     bool
	SkipTest         bool
	SkipTypeChecking bool
}

// Compile validates the raw options and builds the rule sets. Any malformed
// entry fails the whole compilation; no partial configuration is produced.
func Compile(opts Options) (*SkipConfig, error) {
	cfg := &SkipConfig{
		bareNames:        make(map[string]struct{}),
		qualifiedNames:   make(map[string]map[string]struct{}),
		modules:          make(map[string]struct{}),
		namesFromModules: make(map[string]struct{}),
		SkipLocal:        opts.SkipLocal,
		SkipRelative:     opts.SkipRelative,
		SkipTest:         !opts.DontSkipTest,
		SkipTypeChecking: !opts.DontSkipTypeChecking,
	}

	for _, entry := range splitEntries(opts.SkipModules) {
		if err := validateModulePath(entry); err != nil {
			return nil, configErr("skip-modules", entry, err)
		}
		cfg.modules[entry] = struct{}{}
	}

	for _, entry := range splitEntries(opts.SkipNamesFromModules) {
		if err := validateModulePath(entry); err != nil {
			return nil, configErr("skip-names-from-modules", entry, err)
		}
		cfg.namesFromModules[entry] = struct{}{}
	}

	for _, entry := range splitEntries(opts.SkipNames) {
		if identPattern.MatchString(entry) {
			cfg.bareNames[entry] = struct{}{}
			continue
		}
		idx := strings.LastIndex(entry, ".")
		if idx < 0 || idx == len(entry)-1 {
			return nil, configErr("skip-names", entry, fmt.Errorf("expected a bare identifier or module.path.name"))
		}
		module, name := entry[:idx], entry[idx+1:]
		if strings.Trim(module, ".") == "" {
			// "._x" skips _x imported from the relative module ".";
			// the dot is the module reference, not a separator.
			module = entry[:idx+1]
		}
		if !identPattern.MatchString(name) {
			return nil, configErr("skip-names", entry, fmt.Errorf("invalid identifier %q", name))
		}
		if err := validateModulePath(module); err != nil {
			return nil, configErr("skip-names", entry, err)
		}
		names := cfg.qualifiedNames[module]
		if names == nil {
			names = make(map[string]struct{})
			cfg.qualifiedNames[module] = names
		}
		names[name] = struct{}{}
	}

	return cfg, nil
}

func (c *SkipConfig) moduleSkipped(module string) bool {
	_, ok := c.modules[module]
	return ok
}

func (c *SkipConfig) namesFromModuleSkipped(module string) bool {
	_, ok := c.namesFromModules[module]
	return ok
}

func (c *SkipConfig) nameSkipped(module, name string) bool {
	if _, ok := c.bareNames[name]; ok {
		return true
	}
	if names, ok := c.qualifiedNames[module]; ok {
		if _, ok := names[name]; ok {
			return true
		}
	}
	return false
}

// splitEntries flattens list values that may still carry comma-separated
// strings from the CLI, dropping whitespace and empty elements.
func splitEntries(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// validateModulePath accepts dotted module paths with an optional run of
// leading relative dots, e.g. "pkg.sub" or "..pkg._mod". The dots are kept
// verbatim by callers; no resolution happens here.
func validateModulePath(path string) error {
	rest := strings.TrimLeft(path, ".")
	level := len(path) - len(rest)
	if rest == "" {
		// "." and ".." alone are valid relative module references.
		if level > 0 {
			return nil
		}
		return fmt.Errorf("empty module path")
	}
	for _, seg := range strings.Split(rest, ".") {
		if !identPattern.MatchString(seg) {
			return fmt.Errorf("invalid path segment %q", seg)
		}
	}
	return nil
}

func configErr(option, entry string, err error) error {
	de := errors.Wrap(err, errors.CodeConfig, "invalid skip rule").(*errors.DomainError)
	return de.WithContext(errors.CtxOption, option).WithContext(errors.CtxEntry, entry)
}

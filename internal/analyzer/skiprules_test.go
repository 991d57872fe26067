package analyzer

import (
	"testing"

	"pni/internal/core/errors"
)

func TestCompileDefaults(t *testing.T) {
	cfg, err := Compile(Options{})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !cfg.SkipTest {
		t.Error("SkipTest should default to true")
	}
	if !cfg.SkipTypeChecking {
		t.Error("SkipTypeChecking should default to true")
	}
	if cfg.SkipLocal || cfg.SkipRelative {
		t.Error("SkipLocal and SkipRelative should default to false")
	}
}

func TestCompileInvertedFlags(t *testing.T) {
	cfg, err := Compile(Options{DontSkipTest: true, DontSkipTypeChecking: true})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if cfg.SkipTest || cfg.SkipTypeChecking {
		t.Error("dont-skip flags should invert the defaults")
	}
}

func TestCompileSkipNames(t *testing.T) {
	cfg, err := Compile(Options{
		SkipNames: []string{"_name, module.sub_module._function", "._rel"},
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !cfg.nameSkipped("anything.at.all", "_name") {
		t.Error("bare name should be skipped independent of module")
	}
	if !cfg.nameSkipped("module.sub_module", "_function") {
		t.Error("qualified name should be skipped for its module")
	}
	if cfg.nameSkipped("other.module", "_function") {
		t.Error("qualified name must not be skipped for other modules")
	}
	if !cfg.nameSkipped(".", "_rel") {
		t.Error("dot-qualified name should be skipped for the relative module")
	}
}

func TestCompileSkipModules(t *testing.T) {
	cfg, err := Compile(Options{
		SkipModules:          []string{"_mod,pkg._sub"},
		SkipNamesFromModules: []string{"..parent._mod", "."},
	})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}

	if !cfg.moduleSkipped("_mod") || !cfg.moduleSkipped("pkg._sub") {
		t.Error("listed modules should be skipped")
	}
	if cfg.moduleSkipped("pkg") {
		t.Error("unlisted module must not be skipped")
	}
	if !cfg.namesFromModuleSkipped("..parent._mod") {
		t.Error("relative module path should match verbatim")
	}
	if !cfg.namesFromModuleSkipped(".") {
		t.Error("bare dot is a valid relative module reference")
	}
}

func TestCompileRejectsMalformedEntries(t *testing.T) {
	cases := []Options{
		{SkipModules: []string{"a..b"}},
		{SkipModules: []string{"a.b."}},
		{SkipModules: []string{"bad-name"}},
		{SkipNames: []string{"1name"}},
		{SkipNames: []string{"module."}},
		{SkipNamesFromModules: []string{"a b"}},
	}

	for _, opts := range cases {
		_, err := Compile(opts)
		if err == nil {
			t.Errorf("Compile(%+v) should have failed", opts)
			continue
		}
		if !errors.IsCode(err, errors.CodeConfig) {
			t.Errorf("Compile(%+v) error should carry CodeConfig, got %v", opts, err)
		}
	}
}

func TestCompileDropsEmptyListElements(t *testing.T) {
	cfg, err := Compile(Options{SkipModules: []string{"_a, ,, _b,"}})
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !cfg.moduleSkipped("_a") || !cfg.moduleSkipped("_b") {
		t.Error("non-empty elements should survive")
	}
	if len(cfg.modules) != 2 {
		t.Errorf("expected 2 modules, got %d", len(cfg.modules))
	}
}

package project

import (
	"fmt"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config mirrors fluentsettings.toml. Zero fields mean "use the default".
type Config struct {
	Generate    GenerateConfig    `toml:"generate"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

type GenerateConfig struct {
	Output     string `toml:"output"` // каталог вывода; пусто - рядом с входом
	Activation string `toml:"activation"`
	Base       string `toml:"base"`
	Suffix     string `toml:"suffix"`
	Jobs       int    `toml:"jobs"` // 0 = GOMAXPROCS
	Cache      bool   `toml:"cache"`
}

type DiagnosticsConfig struct {
	Max    int    `toml:"max"`
	Format string `toml:"format"` // pretty|json|short
}

// Project is a located and decoded configuration file.
type Project struct {
	Path   string
	Root   string
	Config Config
}

// Default is the configuration used when no file is found.
func Default() Config {
	return Config{
		Generate: GenerateConfig{
			Activation: "LocalSetting",
			Base:       "LocalSettingsBase",
			Suffix:     "_localsettings.gen.go",
			Cache:      true,
		},
		Diagnostics: DiagnosticsConfig{
			Max:    100,
			Format: "pretty",
		},
	}
}

// Load finds fluentsettings.toml above startDir and decodes it. ok is false
// when there is no file; the caller then works with Default().
func Load(startDir string) (*Project, bool, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Project{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig decodes path over Default(). Unknown keys are errors so that a
// typo does not silently fall back to a default.
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late, while generating.
func (c Config) Validate() error {
	g := c.Generate
	if g.Activation != "" && !token.IsIdentifier(g.Activation) {
		return fmt.Errorf("[generate].activation %q is not an identifier", g.Activation)
	}
	if g.Base != "" && !token.IsIdentifier(g.Base) {
		return fmt.Errorf("[generate].base %q is not an identifier", g.Base)
	}
	if g.Suffix != "" && (!strings.HasSuffix(g.Suffix, ".go") || strings.HasSuffix(g.Suffix, "_test.go")) {
		return fmt.Errorf("[generate].suffix %q must end in .go and not _test.go", g.Suffix)
	}
	if g.Jobs < 0 {
		return fmt.Errorf("[generate].jobs must be >= 0, got %d", g.Jobs)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("[diagnostics].max must be >= 0, got %d", c.Diagnostics.Max)
	}
	switch c.Diagnostics.Format {
	case "", "pretty", "json", "short":
	default:
		return fmt.Errorf("[diagnostics].format %q must be pretty, json or short", c.Diagnostics.Format)
	}
	return nil
}

// OutputDir resolves [generate].output against the project root; inputDir
// is used when no output was configured.
func (p *Project) OutputDir(inputDir string) string {
	if p == nil || p.Config.Generate.Output == "" {
		return inputDir
	}
	out := filepath.FromSlash(p.Config.Generate.Output)
	if filepath.IsAbs(out) {
		return out
	}
	return filepath.Join(p.Root, out)
}

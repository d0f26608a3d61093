// Package config carrega a configuração do sinkguard (.sinkguard.yaml).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sena-ops/sinkguard/internal/parser"
	"github.com/Sena-ops/sinkguard/internal/report"
	"github.com/Sena-ops/sinkguard/internal/scanner"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile é procurado na raiz do repositório.
const DefaultConfigFile = ".sinkguard.yaml"

var ErrInvalidConfig = errors.New("configuração inválida")

// Config define o que é varrido e onde o relatório é gravado.
// Caminhos relativos são resolvidos a partir da raiz do repositório.
type Config struct {
	ScanRoot               string   `yaml:"scan_root"`
	ReportPath             string   `yaml:"report_path"`
	LocaleDir              string   `yaml:"locale_dir"`
	SarifPath              string   `yaml:"sarif_path"`
	ExcludeDirs            []string `yaml:"exclude_dirs"`
	IgnoreFiles            []string `yaml:"ignore_files"`
	Extensions             []string `yaml:"extensions"`
	StructuredExtensions   []string `yaml:"structured_extensions"`
	SnippetLimit           int      `yaml:"snippet_limit"`
	StructuralSnippetLimit int      `yaml:"structural_snippet_limit"`
	MaxFileBytes           int64    `yaml:"max_file_bytes"`
	Workers                int      `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		ScanRoot:               filepath.Join("Frontend", "src"),
		ReportPath:             report.DefaultFileName,
		LocaleDir:              filepath.Join("Frontend", "src", "locales"),
		ExcludeDirs:            append([]string(nil), parser.DefaultExcludeDirs...),
		IgnoreFiles:            append([]string(nil), parser.DefaultIgnoreFiles...),
		Extensions:             append([]string(nil), parser.DefaultExtensions...),
		StructuredExtensions:   append([]string(nil), parser.DefaultStructuredExtensions...),
		SnippetLimit:           scanner.DefaultSnippetLimit,
		StructuralSnippetLimit: scanner.DefaultStructuralSnippetLimit,
		MaxFileBytes:           scanner.DefaultMaxFileBytes,
	}
}

// LoadFrom lê path sobre os valores padrão. Um arquivo ausente não é erro
// quando required=false.
func LoadFrom(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("ler config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.ScanRoot) == "" {
		problems = append(problems, "scan_root vazio")
	}
	if strings.TrimSpace(c.ReportPath) == "" {
		problems = append(problems, "report_path vazio")
	}
	if len(c.Extensions) == 0 {
		problems = append(problems, "extensions vazio")
	}
	if c.SnippetLimit < 0 {
		problems = append(problems, "snippet_limit negativo")
	}
	if c.StructuralSnippetLimit < 0 {
		problems = append(problems, "structural_snippet_limit negativo")
	}
	if c.MaxFileBytes < 0 {
		problems = append(problems, "max_file_bytes negativo")
	}
	if c.Workers < 0 {
		problems = append(problems, "workers negativo")
	}
	for _, d := range c.ExcludeDirs {
		if strings.ContainsAny(d, `/\`) {
			problems = append(problems, fmt.Sprintf("exclude_dirs aceita só nomes, não caminhos: %q", d))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Resolve devolve p absoluto, relativo a base quando não for absoluto.
func Resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// ClassifierOptions monta as opções do classificador para a raiz informada.
func (c *Config) ClassifierOptions(repoRoot string) parser.Options {
	return parser.Options{
		Root:                 repoRoot,
		LocaleDir:            Resolve(repoRoot, c.LocaleDir),
		ExcludeDirs:          c.ExcludeDirs,
		IgnoreFiles:          c.IgnoreFiles,
		Extensions:           c.Extensions,
		StructuredExtensions: c.StructuredExtensions,
	}
}

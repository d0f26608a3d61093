package parser

import (
	"path/filepath"
	"strings"
)

var (
	DefaultExcludeDirs          = []string{"node_modules", ".git", "dist", "build"}
	DefaultIgnoreFiles          = []string{"package-lock.json", "yarn.lock", "pnpm-lock.yaml"}
	DefaultExtensions           = []string{".vue", ".js", ".ts", ".jsx", ".tsx", ".html", ".json"}
	DefaultStructuredExtensions = []string{".json"}
)

// Options configura o Classifier. Campos vazios usam os valores padrão.
type Options struct {
	Root                 string // raiz do scan; exclusões valem só abaixo dela
	LocaleDir            string // diretório dos catálogos de tradução
	ExcludeDirs          []string
	IgnoreFiles          []string
	Extensions           []string
	StructuredExtensions []string
}

// Classifier decide se um arquivo entra no scan e quais estratégias se aplicam.
type Classifier struct {
	root        string
	localeDir   string
	excludeDirs map[string]bool
	ignoreFiles map[string]bool
	extensions  map[string]bool
	structured  map[string]bool
}

func NewClassifier(opts Options) *Classifier {
	c := &Classifier{
		root:        cleanAbs(opts.Root),
		localeDir:   cleanAbs(opts.LocaleDir),
		excludeDirs: toSet(orDefault(opts.ExcludeDirs, DefaultExcludeDirs), false),
		ignoreFiles: toSet(orDefault(opts.IgnoreFiles, DefaultIgnoreFiles), true),
		extensions:  toSet(normalizeExts(orDefault(opts.Extensions, DefaultExtensions)), true),
		structured:  toSet(normalizeExts(orDefault(opts.StructuredExtensions, DefaultStructuredExtensions)), true),
	}
	return c
}

// IsExcludedDir informa se um nome de diretório deve ser podado na travessia.
func (c *Classifier) IsExcludedDir(name string) bool {
	return c.excludeDirs[name]
}

// Classify aplica as regras na ordem: diretório excluído, lista de ignorados,
// extensão permitida e, por fim, elegibilidade estrutural.
func (c *Classifier) Classify(path string) Classification {
	abs := cleanAbs(path)

	if c.inExcludedDir(abs) {
		return Classification{Kind: KindOther, Reason: ReasonExcludedDir}
	}

	base := strings.ToLower(filepath.Base(abs))
	if c.ignoreFiles[base] {
		return Classification{Kind: kindOf(base), Reason: ReasonIgnoredFile}
	}

	ext := strings.ToLower(filepath.Ext(base))
	if !c.extensions[ext] {
		return Classification{Kind: kindOf(base), Reason: ReasonExtension}
	}

	return Classification{
		Eligible:   true,
		Structured: c.structured[ext] && c.underLocaleDir(abs),
		Kind:       kindOf(base),
	}
}

func (c *Classifier) inExcludedDir(abs string) bool {
	dir := filepath.Dir(abs)
	if c.root != "" {
		rel, ok := relUnder(c.root, dir)
		if !ok {
			return false
		}
		dir = rel
	}
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if c.excludeDirs[part] {
			return true
		}
	}
	return false
}

func (c *Classifier) underLocaleDir(abs string) bool {
	if c.localeDir == "" {
		return false
	}
	_, ok := relUnder(c.localeDir, abs)
	return ok
}

// relUnder devolve o caminho relativo de target em base, e ok=false quando
// target está fora de base.
func relUnder(base, target string) (string, bool) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return rel, true
}

func kindOf(base string) FileKind {
	switch strings.ToLower(filepath.Ext(base)) {
	case ".js", ".ts", ".jsx", ".tsx":
		return KindSource
	case ".vue", ".html":
		return KindMarkup
	case ".json", ".yaml", ".yml":
		return KindStructured
	default:
		return KindOther
	}
}

func cleanAbs(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return v
}

func normalizeExts(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

func toSet(items []string, lower bool) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		if lower {
			it = strings.ToLower(it)
		}
		set[it] = true
	}
	return set
}

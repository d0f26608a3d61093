package parser

import (
	"path/filepath"
	"testing"
)

func TestClassify(t *testing.T) {
	root := t.TempDir()
	c := NewClassifier(Options{
		Root:      root,
		LocaleDir: filepath.Join(root, "Frontend", "src", "locales"),
	})

	tests := []struct {
		name       string
		rel        string
		eligible   bool
		structured bool
		reason     string
	}{
		{"vue", "Frontend/src/App.vue", true, false, ""},
		{"ts upper ext", "Frontend/src/Main.TS", true, false, ""},
		{"locale json", "Frontend/src/locales/en.json", true, true, ""},
		{"nested locale json", "Frontend/src/locales/de/common.json", true, true, ""},
		{"json fora de locales", "Frontend/src/config/app.json", true, false, ""},
		{"node_modules", "Frontend/node_modules/x/index.js", false, false, ReasonExcludedDir},
		{"git", ".git/hooks/pre-commit.js", false, false, ReasonExcludedDir},
		{"build", "Frontend/build/app.js", false, false, ReasonExcludedDir},
		{"lockfile", "Frontend/package-lock.json", false, false, ReasonIgnoredFile},
		{"lockfile maiúsculo", "Frontend/Package-Lock.JSON", false, false, ReasonIgnoredFile},
		{"yarn lock", "yarn.lock", false, false, ReasonIgnoredFile},
		{"markdown", "README.md", false, false, ReasonExtension},
		{"sem extensão", "Makefile", false, false, ReasonExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(filepath.Join(root, filepath.FromSlash(tt.rel)))
			if got.Eligible != tt.eligible || got.Structured != tt.structured || got.Reason != tt.reason {
				t.Errorf("Classify(%s) = %+v, esperado eligible=%v structured=%v reason=%q",
					tt.rel, got, tt.eligible, tt.structured, tt.reason)
			}
		})
	}
}

func TestClassifyExclusionIsRelativeToRoot(t *testing.T) {
	// a própria raiz fica sob um diretório chamado "build"
	root := filepath.Join(t.TempDir(), "build", "repo")
	c := NewClassifier(Options{Root: root})
	if got := c.Classify(filepath.Join(root, "src", "app.js")); !got.Eligible {
		t.Errorf("componentes acima da raiz não devem excluir: %+v", got)
	}
}

func TestClassifyCustomOptions(t *testing.T) {
	root := t.TempDir()
	c := NewClassifier(Options{
		Root:                 root,
		LocaleDir:            filepath.Join(root, "i18n"),
		ExcludeDirs:          []string{"vendor"},
		Extensions:           []string{"yaml", ".JS"},
		StructuredExtensions: []string{".yaml"},
	})

	if got := c.Classify(filepath.Join(root, "i18n", "en.yaml")); !got.Eligible || !got.Structured {
		t.Errorf("yaml em i18n deveria ser estrutural: %+v", got)
	}
	if got := c.Classify(filepath.Join(root, "app.js")); !got.Eligible {
		t.Errorf("extensão .JS normalizada deveria ser aceita: %+v", got)
	}
	if got := c.Classify(filepath.Join(root, "vendor", "a.js")); got.Eligible {
		t.Errorf("vendor deveria ser excluído: %+v", got)
	}
	if got := c.Classify(filepath.Join(root, "node_modules", "a.js")); !got.Eligible {
		t.Errorf("lista customizada substitui a padrão: %+v", got)
	}
	if !c.IsExcludedDir("vendor") || c.IsExcludedDir("src") {
		t.Error("IsExcludedDir inconsistente")
	}
}

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Sena-ops/sinkguard/internal/config"
	"github.com/Sena-ops/sinkguard/internal/model"
	"github.com/Sena-ops/sinkguard/internal/report"
	"go.uber.org/zap/zaptest"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func settingsFor(root string) scanSettings {
	return scanSettings{
		RepoRoot: root,
		Config:   config.DefaultConfig(),
		Format:   report.FormatText,
	}
}

func scan(t *testing.T, s scanSettings) (model.Verdict, string) {
	t.Helper()
	var out bytes.Buffer
	v, err := runScan(context.Background(), s, zaptest.NewLogger(t).Sugar(), &out)
	if err != nil {
		t.Fatalf("runScan: %v", err)
	}
	return v, out.String()
}

func TestRunScanRiskTiers(t *testing.T) {
	tests := []struct {
		name    string
		content string
		status  model.Status
		exit    int
		message string
	}{
		{"interpolação", "<p>{{ t('hello') }}</p>\n", model.StatusPassWithFindings, 0, "only informational"},
		{"innerHTML", "el.innerHTML = userInput\n", model.StatusFail, 1, "High-risk XSS patterns found"},
		{"limpo", "export default {}\n", model.StatusPassClean, 0, "No findings."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeTree(t, root, map[string]string{"Frontend/src/App.vue": tt.content})

			v, out := scan(t, settingsFor(root))
			if v.Status != tt.status {
				t.Errorf("status esperado %s, obtido %s", tt.status, v.Status)
			}
			if code := report.ExitCode(v, report.ExitPolicy{}); code != tt.exit {
				t.Errorf("exit esperado %d, obtido %d", tt.exit, code)
			}
			if !strings.Contains(out, tt.message) {
				t.Errorf("resumo sem %q:\n%s", tt.message, out)
			}
			if _, err := os.Stat(filepath.Join(root, report.DefaultFileName)); err != nil {
				t.Errorf("relatório não gravado: %v", err)
			}
		})
	}
}

func TestRunScanFallbackRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"web/app.js":              "eval(x)\n",
		"node_modules/lib/a.js":   "eval(x)\n",
		"package-lock.json":       `{"a": "eval("}`,
		"Frontend/README.md":      "eval(x)\n",
		"Frontend/src.txt":        "eval(x)\n",
		"other/locales/en.json":   `{"a": "<b>"}`,
		"Frontend/dist/bundle.js": "eval(x)\n",
	})

	v, _ := scan(t, settingsFor(root))
	if v.Status != model.StatusFail {
		t.Fatalf("esperado fail, obtido %s", v.Status)
	}
	rep, err := report.ReadJSON(filepath.Join(root, report.DefaultFileName))
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Results) != 1 || rep.Results[0].Path != "web/app.js" {
		t.Errorf("resultados inesperados: %+v", rep.Results)
	}
}

func TestRunScanStructuralScope(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Frontend/src/locales/en.json": `{"hello": "<b>hi</b>"}`,
		"Frontend/src/data/menu.json":  `{"hello": "<b>hi</b>"}`,
	})

	scan(t, settingsFor(root))
	rep, err := report.ReadJSON(filepath.Join(root, report.DefaultFileName))
	if err != nil {
		t.Fatal(err)
	}
	if len(rep.Results) != 1 || rep.Results[0].Path != "Frontend/src/locales/en.json" {
		t.Fatalf("só o catálogo de locales deve ter achados: %+v", rep.Results)
	}
	f := rep.Results[0].Findings[0]
	if f.DetectorID != "structural-markup" || f.Line != nil || f.Snippet != "hello: <b>hi</b>" {
		t.Errorf("achado estrutural inesperado: %+v", f)
	}
}

func TestRunScanIdempotent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.vue":       "<div v-html=\"t('x')\"></div>\n",
		"b/c.js":      "document.write(x)\n",
		"b/d/e.ts":    "el.outerHTML = y\n",
		"locales.txt": "eval(x)\n",
	})
	// sem Frontend/src: fallback para a raiz, onde o relatório também é gravado
	s := settingsFor(root)
	s.Config.Workers = 4

	readResults := func() []byte {
		rep, err := report.ReadJSON(filepath.Join(root, report.DefaultFileName))
		if err != nil {
			t.Fatal(err)
		}
		// scannedAt normalizado
		data, err := report.Marshal(model.Report{RootPath: rep.RootPath, Results: rep.Results})
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	scan(t, s)
	first := readResults()
	scan(t, s)
	second := readResults()
	if !bytes.Equal(first, second) {
		t.Errorf("relatórios diferentes:\n%s\n---\n%s", first, second)
	}
	if strings.Contains(string(first), report.DefaultFileName) {
		t.Error("o relatório anterior não pode ser varrido")
	}
}

func TestRunScanSarif(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"Frontend/src/a.js": "eval(x)\n"})
	s := settingsFor(root)
	s.Config.SarifPath = "out/scan.sarif"
	s.Format = report.FormatJSON

	_, out := scan(t, s)
	if _, err := os.Stat(filepath.Join(root, "out", "scan.sarif")); err != nil {
		t.Errorf("SARIF não gravado: %v", err)
	}
	if strings.Contains(out, "Scan complete") {
		t.Error("formato json não deve imprimir o cabeçalho de texto")
	}
}

func TestRunScanReportWriteFailure(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"Frontend/src/a.js": "eval(x)\n",
		"blocker":           "x",
	})
	s := settingsFor(root)
	s.Config.ReportPath = "blocker/report.json"

	var out bytes.Buffer
	if _, err := runScan(context.Background(), s, zaptest.NewLogger(t).Sugar(), &out); err == nil {
		t.Fatal("falha ao gravar o relatório deve ser fatal")
	}
	if exitCodeFor(&exitError{code: 1}) != 1 || exitCodeFor(nil) != 0 {
		t.Error("exitCodeFor inconsistente")
	}
}

func TestRunScanMissingRepoRoot(t *testing.T) {
	s := settingsFor(filepath.Join(t.TempDir(), "nope"))
	if _, err := runScan(context.Background(), s, zaptest.NewLogger(t).Sugar(), &bytes.Buffer{}); err == nil {
		t.Error("repo root inexistente deve falhar")
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" .VUE, .js ,,")
	if !reflect.DeepEqual(got, []string{".vue", ".js"}) {
		t.Errorf("splitAndTrim = %v", got)
	}
}

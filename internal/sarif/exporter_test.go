package sarif

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Sena-ops/sinkguard/internal/model"
)

func TestBuild(t *testing.T) {
	rep := model.Report{
		RootPath: "/repo",
		Results: []model.FileResult{
			{Path: "./src/a.vue", Findings: []model.Finding{
				model.LineFinding("template-interpolation", 3, "{{ t('x') }}"),
				model.LineFinding("v-html", 4, "v-html=\"x\""),
			}},
			{Path: "src/locales/en.json", Findings: []model.Finding{
				model.StructuralFinding("structural-markup", "a: <b>"),
			}},
		},
	}
	rules := []RuleInfo{
		{ID: "v-html", Description: "v-html", Tier: model.TierHigh},
		{ID: "template-interpolation", Description: "t()", Tier: model.TierInformational},
	}

	log := Build(rep, rules, "sinkguard", "0.1.0")
	if log.Version != Version || len(log.Runs) != 1 {
		t.Fatalf("log inesperado: %+v", log)
	}
	run := log.Runs[0]
	if len(run.Tool.Driver.Rules) != 2 {
		t.Errorf("esperado 2 regras, obtido %d", len(run.Tool.Driver.Rules))
	}

	tests := []struct {
		rule  string
		level string
		uri   string
		line  int
	}{
		{"template-interpolation", "note", "src/a.vue", 3},
		{"v-html", "error", "src/a.vue", 4},
		{"structural-markup", "error", "src/locales/en.json", 1},
	}
	if len(run.Results) != len(tests) {
		t.Fatalf("esperado %d resultados, obtido %d", len(tests), len(run.Results))
	}
	for i, tt := range tests {
		r := run.Results[i]
		loc := r.Locations[0].PhysicalLocation
		if r.RuleID != tt.rule || r.Level != tt.level || loc.ArtifactLocation.URI != tt.uri || loc.Region.StartLine != tt.line {
			t.Errorf("resultado %d inesperado: %+v", i, r)
		}
	}
}

func TestExport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "scan.sarif")
	rep := model.Report{Results: []model.FileResult{
		{Path: "a.js", Findings: []model.Finding{model.LineFinding("eval", 1, "eval(x)")}},
	}}
	if err := Export(rep, nil, out, "sinkguard", "dev"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var got Log
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Schema != Schema || got.Runs[0].Tool.Driver.Name != "sinkguard" || len(got.Runs[0].Results) != 1 {
		t.Errorf("SARIF inesperado: %s", data)
	}

	// regravar substitui o arquivo sem deixar temporários
	if err := Export(model.Report{}, nil, out, "sinkguard", "dev"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "scan.sarif" {
		t.Errorf("esperado só scan.sarif, obtido %v", entries)
	}
}

func TestExportFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Export(model.Report{}, nil, filepath.Join(blocker, "scan.sarif"), "sinkguard", "dev"); err == nil {
		t.Error("esperado erro ao gravar sob um arquivo")
	}
}

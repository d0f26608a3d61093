package sarif

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Sena-ops/sinkguard/internal/model"
	"github.com/Sena-ops/sinkguard/internal/report"
)

const (
	Version = "2.1.0"
	Schema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
)

type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []Run  `json:"runs"`
}

type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

type Rule struct {
	ID               string  `json:"id"`
	ShortDescription Message `json:"shortDescription"`
}

type Result struct {
	RuleID    string     `json:"ruleId"`
	Message   Message    `json:"message"`
	Level     string     `json:"level"` // error, warning, note
	Locations []Location `json:"locations"`
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

type ArtifactLocation struct {
	URI string `json:"uri"`
}

type Region struct {
	StartLine int `json:"startLine"`
}

// RuleInfo descreve um detector para a seção tool.driver.rules.
type RuleInfo struct {
	ID          string
	Description string
	Tier        model.Tier
}

// Build converte o relatório em um log SARIF 2.1.0. rules define a ordem e o
// nível de cada regra; ids ausentes de rules viram "error".
func Build(r model.Report, rules []RuleInfo, toolName, toolVersion string) Log {
	tiers := make(map[string]model.Tier, len(rules))
	driverRules := make([]Rule, 0, len(rules))
	for _, ri := range rules {
		tiers[ri.ID] = ri.Tier
		driverRules = append(driverRules, Rule{ID: ri.ID, ShortDescription: Message{Text: ri.Description}})
	}

	results := make([]Result, 0, r.FindingCount())
	for _, fr := range r.Results {
		fileURI := toURI(fr.Path)
		if strings.TrimSpace(fileURI) == "" {
			fileURI = "UNKNOWN"
		}
		for _, f := range fr.Findings {
			// achados estruturais não têm linha; SARIF exige startLine >= 1
			start := f.LineNumber()
			if start <= 0 {
				start = 1
			}
			results = append(results, Result{
				RuleID:  f.DetectorID,
				Level:   tierToLevel(tiers, f.DetectorID),
				Message: Message{Text: strings.TrimSpace(f.Snippet)},
				Locations: []Location{
					{
						PhysicalLocation: PhysicalLocation{
							ArtifactLocation: ArtifactLocation{URI: fileURI},
							Region:           Region{StartLine: start},
						},
					},
				},
			})
		}
	}

	return Log{
		Version: Version,
		Schema:  Schema,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    toolName,
						Version: toolVersion,
						Rules:   driverRules,
					},
				},
				Results: results,
			},
		},
	}
}

// Export grava o log SARIF em outPath, criando o diretório se preciso.
func Export(r model.Report, rules []RuleInfo, outPath, toolName, toolVersion string) error {
	log := Build(r, rules, toolName, toolVersion)

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sarif: %w", err)
	}
	// escrita atômica, como o relatório JSON
	if err := report.WriteFileAtomic(outPath, data); err != nil {
		return fmt.Errorf("escrever sarif: %w", err)
	}
	return nil
}

func tierToLevel(tiers map[string]model.Tier, id string) string {
	tier, ok := tiers[id]
	if !ok || tier == model.TierHigh {
		return "error"
	}
	return "note"
}

func toURI(p string) string {
	p = strings.TrimSpace(p)
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	return strings.TrimPrefix(p, "./")
}

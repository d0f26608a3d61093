package report

import "github.com/Sena-ops/sinkguard/internal/model"

// Evaluate classifica o relatório. Ids desconhecidos contam como risco alto.
func Evaluate(r model.Report, tiers TierSource) model.Verdict {
	v := model.Verdict{Status: model.StatusPassClean}
	for _, fr := range r.Results {
		for _, f := range fr.Findings {
			if isHigh(f.DetectorID, tiers) {
				v.HighRisk++
			} else {
				v.Informational++
			}
		}
	}
	switch {
	case v.HighRisk > 0:
		v.Status = model.StatusFail
	case len(r.Results) > 0:
		v.Status = model.StatusPassWithFindings
	}
	return v
}

func isHigh(id string, tiers TierSource) bool {
	if tiers == nil {
		return true
	}
	tier, ok := tiers.TierOf(id)
	return !ok || tier == model.TierHigh
}

// ExitPolicy ajusta o código de saída sem alterar o veredito.
type ExitPolicy struct {
	NoFail     bool // sempre 0
	FailOnInfo bool // pass-with-findings também falha
}

// ExitCode mapeia o veredito para o código de saída do processo.
func ExitCode(v model.Verdict, p ExitPolicy) int {
	if p.NoFail {
		return 0
	}
	if v.Failed() || (p.FailOnInfo && v.Status == model.StatusPassWithFindings) {
		return 1
	}
	return 0
}

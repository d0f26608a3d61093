package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Sena-ops/sinkguard/internal/model"
)

// Format é o formato do resumo impresso no stdout.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("formato '%s' não suportado (text, json, markdown)", s)
}

// VerdictMessage descreve o veredito em uma linha.
func VerdictMessage(v model.Verdict) string {
	switch v.Status {
	case model.StatusFail:
		return "High-risk XSS patterns found. Failing with exit code 1."
	case model.StatusPassWithFindings:
		return "Findings present but only informational (template interpolation). Not failing."
	default:
		return "No findings."
	}
}

// RenderSummary escreve o resumo do scan em w. data é o JSON já gravado.
func RenderSummary(w io.Writer, format Format, reportPath string, data []byte, r model.Report, v model.Verdict) error {
	var err error
	switch format {
	case FormatJSON:
		_, err = fmt.Fprintln(w, string(data))
	case FormatMarkdown:
		_, err = io.WriteString(w, Markdown(r, v))
	default:
		var b strings.Builder
		fmt.Fprintf(&b, "Scan complete. Report written to %s\n", reportPath)
		b.Write(data)
		b.WriteString("\n")
		b.WriteString(VerdictMessage(v))
		b.WriteString("\n")
		_, err = io.WriteString(w, b.String())
	}
	return err
}

// Markdown gera um resumo em tabelas por arquivo.
func Markdown(r model.Report, v model.Verdict) string {
	var b strings.Builder
	b.WriteString("## 🛡️ Resultado do Scan XSS\n\n")
	fmt.Fprintf(&b, "- Raiz: `%s`\n", r.RootPath)
	fmt.Fprintf(&b, "- Veredito: **%s** (%d alto risco, %d informativo)\n\n", v.Status, v.HighRisk, v.Informational)
	if len(r.Results) == 0 {
		b.WriteString("Nenhum achado.\n")
		return b.String()
	}
	for _, fr := range r.Results {
		fmt.Fprintf(&b, "### %s (%d achado(s))\n\n", fr.Path, len(fr.Findings))
		b.WriteString("| Linha | Padrão | Trecho |\n|---|---|---|\n")
		for _, f := range fr.Findings {
			line := "-"
			if f.Line != nil {
				line = fmt.Sprint(*f.Line)
			}
			fmt.Fprintf(&b, "| %s | `%s` | %s |\n", line, f.DetectorID, escapeCell(f.Snippet))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "`", "'")
	return "`" + s + "`"
}

package scanner

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/Sena-ops/sinkguard/internal/model"
)

const (
	DefaultSnippetLimit           = 200
	DefaultStructuralSnippetLimit = 80
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText devolve o conteúdo como texto; bytes UTF-8 inválidos viram
// U+FFFD. ok=false só quando há byte NUL (arquivo binário).
func DecodeText(content []byte) (string, bool) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if bytes.IndexByte(content, 0) >= 0 {
		return "", false
	}
	return strings.ToValidUTF8(string(content), "\uFFFD"), true
}

// SplitLines separa em "\n" e remove o "\r" final de cada linha.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ScanLines aplica os detectores de linha a cada linha do texto. Cada detector
// gera no máximo um achado por linha; a ordem é linha e depois ordem do registro.
func ScanLines(text string, detectors []Detector, snippetLimit int) []model.Finding {
	if snippetLimit <= 0 {
		snippetLimit = DefaultSnippetLimit
	}
	var findings []model.Finding
	for i, line := range SplitLines(text) {
		for _, d := range detectors {
			if d.Kind != KindLine || !d.Matches(line) {
				continue
			}
			findings = append(findings, model.LineFinding(d.ID, i+1, truncate(strings.TrimSpace(line), snippetLimit)))
		}
	}
	return findings
}

// truncate corta s em no máximo limit runas.
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

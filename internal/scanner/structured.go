package scanner

import (
	"path/filepath"
	"strings"

	"github.com/Sena-ops/sinkguard/internal/model"
)

// ParseDocument escolhe o decodificador pela extensão do arquivo.
func ParseDocument(path string, data []byte) (Value, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ScanStructured procura "<" em valores string do catálogo. Documentos que
// não decodificam não geram achados.
func ScanStructured(path string, data []byte, valueLimit int) []model.Finding {
	doc, err := ParseDocument(path, data)
	if err != nil {
		return nil
	}
	return ScanValue(doc, valueLimit)
}

// ScanValue aplica o detector structural-markup a um documento já decodificado.
func ScanValue(doc Value, valueLimit int) []model.Finding {
	if valueLimit <= 0 {
		valueLimit = DefaultStructuralSnippetLimit
	}
	var findings []model.Finding
	Visit(doc, "", func(path, s string) {
		if !strings.Contains(s, "<") {
			return
		}
		findings = append(findings, model.StructuralFinding(StructuralMarkupID, path+": "+truncate(s, valueLimit)))
	})
	return findings
}

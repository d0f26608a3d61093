package model

import (
	"bytes"
	"encoding/json"
	"time"
)

// Tier é a faixa de risco de um detector.
type Tier string

const (
	TierHigh          Tier = "high"
	TierInformational Tier = "informational"
)

// Finding é uma ocorrência de um detector em uma linha ou em um caminho de chave.
type Finding struct {
	DetectorID string `json:"pattern"` // id do detector no registro
	Line       *int   `json:"line"`    // 1-based; nil para achados estruturais
	Snippet    string `json:"snippet"` // trecho limitado do conteúdo
}

// LineFinding monta um Finding com número de linha.
func LineFinding(id string, line int, snippet string) Finding {
	n := line
	return Finding{DetectorID: id, Line: &n, Snippet: snippet}
}

// StructuralFinding monta um Finding sem número de linha.
func StructuralFinding(id, snippet string) Finding {
	return Finding{DetectorID: id, Snippet: snippet}
}

// LineNumber devolve a linha ou 0 quando o achado é estrutural.
func (f Finding) LineNumber() int {
	if f.Line == nil {
		return 0
	}
	return *f.Line
}

type FileResult struct {
	Path     string    `json:"path"` // relativo a Report.RootPath, com "/"
	Findings []Finding `json:"findings"`
}

type Report struct {
	ScannedAt time.Time    `json:"-"`
	RootPath  string       `json:"rootPath"`
	Results   []FileResult `json:"results"`
}

// TimestampLayout é o formato ISO-8601 usado em scannedAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MarshalJSON mantém a ordem de campos do relatório: scannedAt, rootPath, results.
// Trechos com "<" e "&" saem sem escape HTML, legíveis no artefato.
func (r Report) MarshalJSON() ([]byte, error) {
	results := r.Results
	if results == nil {
		results = []FileResult{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(struct {
		ScannedAt string       `json:"scannedAt"`
		RootPath  string       `json:"rootPath"`
		Results   []FileResult `json:"results"`
	}{
		ScannedAt: r.ScannedAt.UTC().Format(TimestampLayout),
		RootPath:  r.RootPath,
		Results:   results,
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON é o inverso de MarshalJSON.
func (r *Report) UnmarshalJSON(b []byte) error {
	var raw struct {
		ScannedAt string       `json:"scannedAt"`
		RootPath  string       `json:"rootPath"`
		Results   []FileResult `json:"results"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	ts, err := time.Parse(TimestampLayout, raw.ScannedAt)
	if err != nil {
		return err
	}
	r.ScannedAt = ts
	r.RootPath = raw.RootPath
	r.Results = raw.Results
	return nil
}

// FindingCount soma os achados de todos os arquivos.
func (r Report) FindingCount() int {
	n := 0
	for _, fr := range r.Results {
		n += len(fr.Findings)
	}
	return n
}

type Status string

const (
	StatusFail             Status = "fail"
	StatusPassWithFindings Status = "pass-with-findings"
	StatusPassClean        Status = "pass-clean"
)

// Verdict é derivado do Report e nunca é persistido junto dele.
type Verdict struct {
	Status        Status
	HighRisk      int // achados de risco alto
	Informational int // achados informativos
}

func (v Verdict) Failed() bool {
	return v.Status == StatusFail
}

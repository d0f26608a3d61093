// Package report agrega os achados, calcula o veredito e persiste o relatório.
package report

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Sena-ops/sinkguard/internal/model"
)

var (
	ErrDuplicatePath   = errors.New("caminho duplicado no relatório")
	ErrUnknownDetector = errors.New("detector desconhecido")
)

// TierSource resolve o tier de um id de detector.
type TierSource interface {
	TierOf(id string) (model.Tier, bool)
}

// Builder monta um model.Report em uma única passagem de agregação.
// Não é seguro para uso concorrente; o Engine agrega em uma única goroutine.
type Builder struct {
	root    string
	tiers   TierSource
	results []model.FileResult
	seen    map[string]bool
}

func NewBuilder(root string, tiers TierSource) *Builder {
	return &Builder{
		root:  root,
		tiers: tiers,
		seen:  make(map[string]bool),
	}
}

// Add registra o resultado de um arquivo. Resultados sem achados são ignorados.
func (b *Builder) Add(fr model.FileResult) error {
	if len(fr.Findings) == 0 {
		return nil
	}
	if b.seen[fr.Path] {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, fr.Path)
	}
	if b.tiers != nil {
		for _, f := range fr.Findings {
			if _, ok := b.tiers.TierOf(f.DetectorID); !ok {
				return fmt.Errorf("%w: %s em %s", ErrUnknownDetector, f.DetectorID, fr.Path)
			}
		}
	}
	b.seen[fr.Path] = true
	findings := make([]model.Finding, len(fr.Findings))
	copy(findings, fr.Findings)
	b.results = append(b.results, model.FileResult{Path: fr.Path, Findings: findings})
	return nil
}

// Build devolve o relatório com os resultados ordenados por caminho.
func (b *Builder) Build(scannedAt time.Time) model.Report {
	results := make([]model.FileResult, len(b.results))
	copy(results, b.results)
	SortResults(results)
	return model.Report{
		ScannedAt: scannedAt,
		RootPath:  b.root,
		Results:   results,
	}
}

func SortResults(rs []model.FileResult) {
	sort.Slice(rs, func(i, j int) bool {
		return rs[i].Path < rs[j].Path
	})
}

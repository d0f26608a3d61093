package scanner

import (
	"fmt"
	"regexp"

	"github.com/Sena-ops/sinkguard/internal/model"
)

// Kind diz qual estratégia de scan usa o detector.
type Kind string

const (
	KindLine       Kind = "line"
	KindStructural Kind = "structural"
)

// StructuralMarkupID é o detector aplicado a valores de catálogos de tradução.
const StructuralMarkupID = "structural-markup"

// Detector reconhece uma categoria de padrão arriscado.
// regexp.Regexp não guarda posição entre chamadas, então Match é uma função pura.
type Detector struct {
	ID          string
	Description string
	Tier        model.Tier
	Kind        Kind
	pattern     *regexp.Regexp
}

// Match devolve as posições [início, fim) de cada ocorrência na linha.
func (d Detector) Match(line string) [][2]int {
	if d.pattern == nil {
		return nil
	}
	idx := d.pattern.FindAllStringIndex(line, -1)
	out := make([][2]int, 0, len(idx))
	for _, m := range idx {
		out = append(out, [2]int{m[0], m[1]})
	}
	return out
}

// Matches informa se há ao menos uma ocorrência na linha.
func (d Detector) Matches(line string) bool {
	return d.pattern != nil && d.pattern.MatchString(line)
}

// Registry é o conjunto fixo de detectores, somente leitura depois de criado.
type Registry struct {
	detectors []Detector
	byID      map[string]int
}

func NewRegistry(detectors ...Detector) (*Registry, error) {
	r := &Registry{
		detectors: make([]Detector, 0, len(detectors)),
		byID:      make(map[string]int, len(detectors)),
	}
	for _, d := range detectors {
		if d.ID == "" {
			return nil, fmt.Errorf("detector sem id")
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("detector '%s' duplicado", d.ID)
		}
		if d.Kind == KindLine && d.pattern == nil {
			return nil, fmt.Errorf("detector '%s' sem padrão", d.ID)
		}
		r.byID[d.ID] = len(r.detectors)
		r.detectors = append(r.detectors, d)
	}
	return r, nil
}

// LineDetector cria um detector de linha a partir de uma expressão RE2.
func LineDetector(id string, tier model.Tier, expr, description string) Detector {
	return Detector{
		ID:          id,
		Description: description,
		Tier:        tier,
		Kind:        KindLine,
		pattern:     regexp.MustCompile(expr),
	}
}

var defaultRegistry = mustRegistry(
	LineDetector("v-html", model.TierHigh, "v-html\\s*=\\s*[\"'`]", "diretiva v-html (HTML cru no template)"),
	LineDetector("innerHTML", model.TierHigh, `\binnerHTML\b`, "uso de innerHTML"),
	LineDetector("document.write", model.TierHigh, `document\.write\s*\(`, "document.write"),
	LineDetector("insertAdjacentHTML", model.TierHigh, `insertAdjacentHTML\s*\(`, "inserção de fragmento HTML"),
	LineDetector("eval", model.TierHigh, `\beval\s*\(`, "avaliação dinâmica de código"),
	LineDetector("outerHTML", model.TierHigh, `\.outerHTML\b`, "atribuição de outerHTML"),
	LineDetector("dangerouslySetInnerHTML", model.TierHigh, `dangerouslySetInnerHTML`, "HTML cru em JSX"),
	LineDetector("setAttribute-on", model.TierHigh, `setAttribute\s*\(\s*["']on[a-zA-Z]+["']\s*,`, "handler inline via setAttribute"),
	LineDetector("addEventListener-on", model.TierHigh, `addEventListener\s*\(\s*["']on[a-zA-Z]+["']\s*,`, "listener registrado com nome on*"),
	LineDetector("template-interpolation", model.TierInformational, `\{\{\s*t\(.*?\)\s*\}\}`, "interpolação de t() no template"),
	LineDetector("v-html-with-t", model.TierHigh, "v-html\\s*=\\s*[\"'`][^\"'`]*t\\(", "t() dentro de v-html"),
	Detector{
		ID:          StructuralMarkupID,
		Description: "marcação em valor de catálogo de tradução",
		Tier:        model.TierHigh,
		Kind:        KindStructural,
	},
)

func mustRegistry(detectors ...Detector) *Registry {
	r, err := NewRegistry(detectors...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRegistry devolve o registro padrão compartilhado.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func (r *Registry) Lookup(id string) (Detector, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Detector{}, false
	}
	return r.detectors[i], true
}

// TierOf devolve o tier do detector; ok=false para ids desconhecidos.
func (r *Registry) TierOf(id string) (model.Tier, bool) {
	d, ok := r.Lookup(id)
	return d.Tier, ok
}

// All devolve uma cópia dos detectores na ordem do registro.
func (r *Registry) All() []Detector {
	out := make([]Detector, len(r.detectors))
	copy(out, r.detectors)
	return out
}

// LineDetectors devolve os detectores de linha na ordem do registro.
func (r *Registry) LineDetectors() []Detector {
	var out []Detector
	for _, d := range r.detectors {
		if d.Kind == KindLine {
			out = append(out, d)
		}
	}
	return out
}

package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Sena-ops/sinkguard/internal/model"
	"github.com/Sena-ops/sinkguard/internal/parser"
	"github.com/Sena-ops/sinkguard/internal/report"
	"go.uber.org/zap"
)

// DefaultMaxFileBytes limita o tamanho dos arquivos lidos (5 MiB).
const DefaultMaxFileBytes = 5 * 1024 * 1024

// Options configura o Engine. Zeros usam os valores padrão.
type Options struct {
	RepoRoot               string // base dos caminhos relativos do relatório
	Classifier             *parser.Classifier
	Registry               *Registry
	Workers                int
	SnippetLimit           int
	StructuralSnippetLimit int
	MaxFileBytes           int64
	SkipFiles              []string // caminhos nunca varridos (o próprio relatório)
	Logger                 *zap.SugaredLogger
	Now                    func() time.Time
}

// Engine orquestra travessia, scan e agregação.
type Engine struct {
	opts          Options
	lineDetectors []Detector
	skip          map[string]bool
	log           *zap.SugaredLogger
}

func NewEngine(opts Options) (*Engine, error) {
	if opts.RepoRoot == "" {
		return nil, errors.New("repo root não informado")
	}
	abs, err := filepath.Abs(opts.RepoRoot)
	if err != nil {
		return nil, fmt.Errorf("resolver repo root: %w", err)
	}
	opts.RepoRoot = abs
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	if opts.Classifier == nil {
		opts.Classifier = parser.NewClassifier(parser.Options{Root: abs})
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.MaxFileBytes <= 0 {
		opts.MaxFileBytes = DefaultMaxFileBytes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	skip := make(map[string]bool, len(opts.SkipFiles))
	for _, p := range opts.SkipFiles {
		if p == "" {
			continue
		}
		if a, err := filepath.Abs(p); err == nil {
			skip[a] = true
		}
	}
	return &Engine{
		opts:          opts,
		lineDetectors: opts.Registry.LineDetectors(),
		skip:          skip,
		log:           log,
	}, nil
}

// ResolveRoot devolve primary quando ele existe e é diretório; caso contrário
// devolve fallback com usedFallback=true.
func ResolveRoot(primary, fallback string) (root string, usedFallback bool, err error) {
	if info, statErr := os.Stat(primary); statErr == nil && info.IsDir() {
		return primary, false, nil
	}
	info, err := os.Stat(fallback)
	if err != nil {
		return "", false, fmt.Errorf("raiz de fallback %s: %w", fallback, err)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("raiz de fallback %s não é diretório", fallback)
	}
	return fallback, true, nil
}

type scanJob struct {
	path string
	cls  parser.Classification
}

// Run varre root com um pool limitado de workers e devolve o relatório.
// Arquivos ilegíveis são pulados; o cancelamento do contexto interrompe a varredura.
func (e *Engine) Run(ctx context.Context, root string) (model.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan scanJob, e.opts.Workers*2)
	results := make(chan model.FileResult, e.opts.Workers*2)

	var walkErr error
	walkDone := make(chan struct{})
	go func() {
		defer close(walkDone)
		defer close(jobs)
		walkErr = parser.Walk(ctx, root, e.opts.Classifier, func(path string) error {
			if e.skip[path] {
				return nil
			}
			cls := e.opts.Classifier.Classify(path)
			if !cls.Eligible {
				e.log.Debugw("arquivo fora do scan", "arquivo", path, "motivo", cls.Reason)
				return nil
			}
			select {
			case jobs <- scanJob{path: path, cls: cls}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	var wg sync.WaitGroup
	for i := 0; i < e.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				fr, err := e.ScanFile(job.path, job.cls)
				if err != nil {
					e.log.Debugw("arquivo ignorado", "arquivo", job.path, "erro", err)
					continue
				}
				if len(fr.Findings) == 0 {
					continue
				}
				select {
				case results <- fr:
				case <-ctx.Done():
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	builder := report.NewBuilder(e.opts.RepoRoot, e.opts.Registry)
	var addErr error
	for fr := range results {
		if err := builder.Add(fr); err != nil && addErr == nil {
			e.log.Errorw("erro de agregação", "arquivo", fr.Path, "erro", err)
			addErr = err
		}
	}

	<-walkDone
	if walkErr != nil {
		return model.Report{}, fmt.Errorf("percorrer %s: %w", root, walkErr)
	}
	if err := ctx.Err(); err != nil {
		return model.Report{}, err
	}
	if addErr != nil {
		return model.Report{}, addErr
	}
	return builder.Build(e.opts.Now()), nil
}

// ScanFile lê e varre um único arquivo já classificado.
func (e *Engine) ScanFile(path string, cls parser.Classification) (model.FileResult, error) {
	rel, err := filepath.Rel(e.opts.RepoRoot, path)
	if err != nil {
		rel = path
	}
	fr := model.FileResult{Path: filepath.ToSlash(rel)}

	info, err := os.Stat(path)
	if err != nil {
		return fr, err
	}
	if info.Size() > e.opts.MaxFileBytes {
		return fr, fmt.Errorf("arquivo maior que %d bytes", e.opts.MaxFileBytes)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fr, err
	}
	text, ok := DecodeText(data)
	if !ok {
		return fr, errors.New("conteúdo não é texto")
	}

	fr.Findings = ScanLines(text, e.lineDetectors, e.opts.SnippetLimit)
	if cls.Structured {
		fr.Findings = append(fr.Findings, ScanStructured(path, []byte(text), e.opts.StructuralSnippetLimit)...)
	}
	return fr, nil
}

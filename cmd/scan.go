package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/Sena-ops/sinkguard/internal/config"
	"github.com/Sena-ops/sinkguard/internal/logging"
	"github.com/Sena-ops/sinkguard/internal/model"
	"github.com/Sena-ops/sinkguard/internal/parser"
	"github.com/Sena-ops/sinkguard/internal/report"
	"github.com/Sena-ops/sinkguard/internal/sarif"
	"github.com/Sena-ops/sinkguard/internal/scanner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var repoRoot string
var scanRoot string
var outputPath string
var localeDir string
var outputFormat string
var sarifPath string
var configPath string
var extList string
var workers int
var noFail bool
var failOnInfo bool
var debugMode bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Varre o front-end em busca de sinks XSS e grava o relatório JSON",
	Args:  cobra.NoArgs,
	RunE:  runScanCmd,
}

// scanSettings é a configuração efetiva de uma execução.
type scanSettings struct {
	RepoRoot string
	Config   *config.Config
	Format   report.Format
	Policy   report.ExitPolicy
	Registry *scanner.Registry
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	logging.InitLogger(debugMode)
	defer logging.Logger.Sync()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log, _ := logging.ForRun(logging.Logger)
	verdict, err := runScan(ctx, settings, log, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if code := report.ExitCode(verdict, settings.Policy); code != 0 {
		return &exitError{code: code}
	}
	return nil
}

// loadSettings aplica as flags alteradas sobre o arquivo de configuração.
func loadSettings(cmd *cobra.Command) (scanSettings, error) {
	root, err := filepath.Abs(repoRoot)
	if err != nil {
		return scanSettings{}, fmt.Errorf("resolver repo root: %w", err)
	}

	cfgPath := configPath
	required := cmd.Flags().Changed("config")
	if cfgPath == "" {
		cfgPath = filepath.Join(root, config.DefaultConfigFile)
	}
	cfg, err := config.LoadFrom(cfgPath, required)
	if err != nil {
		return scanSettings{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.ScanRoot = scanRoot
	}
	if flags.Changed("output") {
		cfg.ReportPath = outputPath
	}
	if flags.Changed("locale-dir") {
		cfg.LocaleDir = localeDir
	}
	if flags.Changed("sarif") {
		cfg.SarifPath = sarifPath
	}
	if flags.Changed("ext") {
		cfg.Extensions = splitAndTrim(extList)
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return scanSettings{}, err
	}

	format, err := report.ParseFormat(outputFormat)
	if err != nil {
		return scanSettings{}, err
	}

	return scanSettings{
		RepoRoot: root,
		Config:   cfg,
		Format:   format,
		Policy:   report.ExitPolicy{NoFail: noFail, FailOnInfo: failOnInfo},
		Registry: scanner.DefaultRegistry(),
	}, nil
}

// runScan executa uma varredura completa: resolve a raiz, varre, grava o
// relatório e imprime o resumo. Falha ao gravar o relatório é fatal.
func runScan(ctx context.Context, s scanSettings, log *zap.SugaredLogger, stdout io.Writer) (model.Verdict, error) {
	if info, err := os.Stat(s.RepoRoot); err != nil || !info.IsDir() {
		return model.Verdict{}, fmt.Errorf("repo root inválido: %s", s.RepoRoot)
	}
	cfg := s.Config
	registry := s.Registry
	if registry == nil {
		registry = scanner.DefaultRegistry()
	}

	primary := config.Resolve(s.RepoRoot, cfg.ScanRoot)
	root, usedFallback, err := scanner.ResolveRoot(primary, s.RepoRoot)
	if err != nil {
		return model.Verdict{}, err
	}
	if usedFallback {
		log.Warnw("Raiz de scan não encontrada, varrendo a raiz do repositório", "raiz", primary, "fallback", root)
	}
	log.Infof("Escaneando diretório: %s", root)

	outPath := config.Resolve(s.RepoRoot, cfg.ReportPath)
	sarifOut := config.Resolve(s.RepoRoot, cfg.SarifPath)

	engine, err := scanner.NewEngine(scanner.Options{
		RepoRoot:               s.RepoRoot,
		Classifier:             parser.NewClassifier(cfg.ClassifierOptions(s.RepoRoot)),
		Registry:               registry,
		Workers:                cfg.Workers,
		SnippetLimit:           cfg.SnippetLimit,
		StructuralSnippetLimit: cfg.StructuralSnippetLimit,
		MaxFileBytes:           cfg.MaxFileBytes,
		SkipFiles:              []string{outPath, sarifOut},
		Logger:                 log,
	})
	if err != nil {
		return model.Verdict{}, err
	}

	rep, err := engine.Run(ctx, root)
	if err != nil {
		return model.Verdict{}, fmt.Errorf("scan: %w", err)
	}

	data, err := report.WriteJSON(outPath, rep)
	if err != nil {
		log.Errorw("Erro ao salvar o relatório", "arquivo", outPath, "erro", err)
		return model.Verdict{}, err
	}
	log.Infow("Relatório salvo com sucesso", "arquivo", outPath, "arquivos", len(rep.Results), "achados", rep.FindingCount())

	if sarifOut != "" {
		if err := sarif.Export(rep, sarifRules(registry), sarifOut, "sinkguard", Version); err != nil {
			log.Errorw("Erro ao gerar SARIF", "arquivo", sarifOut, "erro", err)
			return model.Verdict{}, err
		}
		log.Infow("SARIF salvo", "arquivo", sarifOut)
	}

	verdict := report.Evaluate(rep, registry)
	if err := report.RenderSummary(stdout, s.Format, outPath, data, rep, verdict); err != nil {
		return model.Verdict{}, fmt.Errorf("imprimir resumo: %w", err)
	}
	log.Infow("Veredito", "status", verdict.Status, "alto_risco", verdict.HighRisk, "informativo", verdict.Informational)
	return verdict, nil
}

func sarifRules(reg *scanner.Registry) []sarif.RuleInfo {
	var rules []sarif.RuleInfo
	for _, d := range reg.All() {
		rules = append(rules, sarif.RuleInfo{ID: d.ID, Description: d.Description, Tier: d.Tier})
	}
	return rules
}

func bindScanFlags(c *cobra.Command) {
	flags := c.PersistentFlags()
	flags.StringVar(&repoRoot, "repo-root", ".", "Raiz do repositório (base dos caminhos do relatório)")
	flags.StringVar(&scanRoot, "root", "", "Diretório a varrer, relativo à raiz (padrão Frontend/src)")
	flags.StringVarP(&outputPath, "output", "o", "", "Caminho do relatório JSON (padrão scan-xss-report.json)")
	flags.StringVar(&localeDir, "locale-dir", "", "Diretório dos catálogos de tradução (padrão Frontend/src/locales)")
	flags.StringVarP(&outputFormat, "format", "f", "text", "Formato do resumo no stdout (text, json, markdown)")
	flags.StringVar(&sarifPath, "sarif", "", "Grava também um relatório SARIF 2.1.0 neste caminho")
	flags.StringVar(&configPath, "config", "", "Arquivo de configuração (padrão <repo-root>/.sinkguard.yaml)")
	flags.StringVar(&extList, "ext", "", "Extensões permitidas (ex: .vue,.js,.json)")
	flags.IntVarP(&workers, "workers", "w", 0, "Número de workers (padrão: CPUs)")
	flags.BoolVar(&noFail, "no-fail", false, "Sempre sai com código 0")
	flags.BoolVar(&failOnInfo, "fail-on-info", false, "Falha também com achados informativos")
	flags.BoolVar(&debugMode, "debug", false, "Habilita logs em nível debug")
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(strings.ToLower(part))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

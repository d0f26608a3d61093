package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/Sena-ops/sinkguard/internal/config"
	"github.com/Sena-ops/sinkguard/internal/logging"
	"github.com/Sena-ops/sinkguard/internal/parser"
	"github.com/Sena-ops/sinkguard/internal/scanner"
	"github.com/Sena-ops/sinkguard/internal/watch"
	"github.com/spf13/cobra"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refaz o scan a cada mudança na árvore e regrava o relatório",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.InitLogger(debugMode)
		defer logging.Logger.Sync()

		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		scanOnce := func(ctx context.Context) error {
			log, _ := logging.ForRun(logging.Logger)
			_, err := runScan(ctx, settings, log, out)
			return err
		}
		// primeira varredura imediata; o veredito não encerra o watch
		if err := scanOnce(ctx); err != nil {
			return err
		}

		root, _, err := scanner.ResolveRoot(config.Resolve(settings.RepoRoot, settings.Config.ScanRoot), settings.RepoRoot)
		if err != nil {
			return err
		}
		classifier := parser.NewClassifier(settings.Config.ClassifierOptions(settings.RepoRoot))
		ignored := map[string]bool{}
		for _, p := range []string{settings.Config.ReportPath, settings.Config.SarifPath} {
			if p != "" {
				ignored[filepath.Clean(config.Resolve(settings.RepoRoot, p))] = true
			}
		}

		w, err := watch.New(watch.Config{
			Root:     root,
			SkipDir:  classifier.IsExcludedDir,
			Ignore:   func(path string) bool { return ignored[filepath.Clean(path)] || isTempReport(path) },
			Debounce: debounce,
			OnChange: scanOnce,
			OnError: func(err error) {
				logging.Logger.Errorw("Erro no watch", "erro", err)
			},
			Logger: logging.Logger,
		})
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		logging.Logger.Infow("Observando mudanças", "raiz", root)

		<-ctx.Done()
		return w.Stop()
	},
}

// isTempReport reconhece os temporários de report.WriteFileAtomic.
func isTempReport(path string) bool {
	base := filepath.Base(path)
	matched, _ := filepath.Match(".*.tmp-*", base)
	return matched
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Espera após a última mudança antes de varrer")
	rootCmd.AddCommand(watchCmd)
}

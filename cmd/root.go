package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/Sena-ops/sinkguard/internal/logging"
	"github.com/spf13/cobra"
)

// Version é sobrescrita via -ldflags no build de release.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "sinkguard",
	Short:         "sinkguard - Scanner estático de sinks XSS para front-ends Vue/JS",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	// sem subcomando, roda o scan com os valores padrão
	RunE: runScanCmd,
}

// exitError carrega um código de saída sem mensagem (veredito do scan).
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit %d", e.code)
}

// Execute roda a CLI e encerra o processo com o código derivado:
// 0 sem risco alto, 1 com risco alto, 2 em falha operacional.
func Execute() {
	os.Exit(exitCodeFor(rootCmd.Execute()))
}

func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	logging.Logger.Errorw("Erro ao executar o sinkguard", "erro", err)
	fmt.Fprintln(os.Stderr, "ERROR:", err)
	return 2
}

func init() {
	bindScanFlags(rootCmd)
	rootCmd.Version = Version
}

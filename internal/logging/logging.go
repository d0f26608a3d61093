package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var Logger = zap.NewNop().Sugar()

// New cria o logger console; debug habilita o nível debug.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Encoding = "console"
	// stdout fica reservado para o relatório
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// InitLogger inicializa o Logger global.
func InitLogger(debug bool) {
	l, err := New(debug)
	if err != nil {
		panic("erro ao inicializar logger: " + err.Error())
	}
	Logger = l
}

// ForRun devolve um logger com o campo "run" identificando uma execução.
func ForRun(base *zap.SugaredLogger) (*zap.SugaredLogger, string) {
	if base == nil {
		base = Logger
	}
	id := uuid.NewString()
	return base.With("run", id), id
}

package parser

// FileKind é a família do arquivo conforme a extensão.
type FileKind string

const (
	KindSource     FileKind = "source"     // .js, .ts, .jsx, .tsx
	KindMarkup     FileKind = "markup"     // .vue, .html
	KindStructured FileKind = "structured" // .json, .yaml, .yml
	KindOther      FileKind = "other"
)

// Classification é a decisão do classificador para um caminho.
type Classification struct {
	Eligible   bool     // aplica o scan de linhas
	Structured bool     // aplica também o scan estrutural
	Kind       FileKind
	Reason     string // motivo da rejeição, vazio quando elegível
}

const (
	ReasonExcludedDir = "diretório excluído"
	ReasonIgnoredFile = "arquivo ignorado"
	ReasonExtension   = "extensão não suportada"
)

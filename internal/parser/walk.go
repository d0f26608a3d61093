package parser

import (
	"context"
	"io/fs"
	"path/filepath"
)

// WalkFunc recebe o caminho absoluto de cada arquivo regular encontrado.
type WalkFunc func(path string) error

// Walk percorre root em profundidade (ordem lexical) e chama fn para cada
// arquivo regular. Diretórios excluídos são podados antes da descida.
// Subdiretórios ilegíveis são pulados; erros de fn interrompem a travessia.
func Walk(ctx context.Context, root string, c *Classifier, fn WalkFunc) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	return filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == absRoot {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != absRoot && c.IsExcludedDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return fn(path)
	})
}

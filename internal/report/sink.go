package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/Sena-ops/sinkguard/internal/model"
	"github.com/google/uuid"
)

// DefaultFileName é o nome padrão do artefato JSON.
const DefaultFileName = "scan-xss-report.json"

// Marshal serializa o relatório com indentação de dois espaços.
func Marshal(r model.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("marshal relatório: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON grava o relatório em path de forma atômica.
func WriteJSON(path string, r model.Report) ([]byte, error) {
	data, err := Marshal(r)
	if err != nil {
		return nil, err
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return nil, fmt.Errorf("escrever relatório %s: %w", path, err)
	}
	return data, nil
}

// ReadJSON carrega um relatório gravado por WriteJSON.
func ReadJSON(path string) (model.Report, error) {
	var r model.Report
	data, err := os.ReadFile(path)
	if err != nil {
		return r, err
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse relatório %s: %w", path, err)
	}
	return r, nil
}

// WriteFileAtomic grava em um arquivo temporário, faz fsync e renomeia.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, "."+filepath.Base(path)+".tmp-"+uuid.NewString())
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := syncDir(dir); err != nil {
		return fmt.Errorf("sync do diretório %s: %w", dir, err)
	}
	return nil
}

// syncDir persiste a entrada renomeada. No Windows diretórios não aceitam fsync.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return err
	}
	return d.Close()
}

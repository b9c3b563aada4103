package infra

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var errSinkClosed = errors.New("audit sink closed")

// FileAuditSink é a trilha de auditoria append-only: uma linha por requisição.
//
// O arquivo é aberto uma vez na inicialização, compartilhado por todas as
// requisições e fechado só no shutdown do processo.
type FileAuditSink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	closed bool
}

// OpenFileAuditSink abre (ou cria) o arquivo em modo append, criando o
// diretório se necessário.
func OpenFileAuditSink(path string) (*FileAuditSink, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("audit log path is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating audit log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	return &FileAuditSink{w: f, closer: f}, nil
}

// NewWriterAuditSink usa um io.Writer qualquer (ex.: os.Stdout, buffer em testes).
func NewWriterAuditSink(w io.Writer) *FileAuditSink {
	return &FileAuditSink{w: w}
}

// Append implementa domain.AuditSink.
func (s *FileAuditSink) Append(line string) error {
	if s == nil {
		return errSinkClosed
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errSinkClosed
	}
	_, err := io.WriteString(s.w, line)
	return err
}

func (s *FileAuditSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

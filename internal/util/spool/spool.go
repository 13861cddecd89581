// Package spool guarda el archivo subido en disco mientras dura el upload.
//
// El archivo se nombra "<unix-nanos>-<nombre original>" dentro del directorio
// de uploads. Remove es idempotente: se puede llamar en un defer y además en
// el camino feliz sin efectos dobles.
package spool

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrSource marca un fallo leyendo r (el body del cliente). Los fallos del
// lado del disco (mkdir, create, write, sync) no lo llevan.
var ErrSource = errors.New("spool: read source")

// File es el artefacto temporal de un upload.
type File struct {
	Path string
	Size int64

	once      sync.Once
	removeErr error
}

// Write copia r a un archivo nuevo en dir.
// Pasos: create (O_EXCL) → copy → Sync → Close. Si algo falla el archivo se borra.
func Write(dir, name string, r io.Reader) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("spool: mkdir %s: %w", dir, err)
	}

	path := filepath.Join(dir, strconv.FormatInt(time.Now().UnixNano(), 10)+"-"+safeName(name))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("spool: create: %w", err)
	}

	src := &sourceReader{r: r}
	n, err := io.Copy(f, src)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		if src.err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrSource, filepath.Base(path), src.err)
		}
		return nil, fmt.Errorf("spool: write %s: %w", filepath.Base(path), err)
	}

	return &File{Path: path, Size: n}, nil
}

// sourceReader recuerda el error de r para separarlo de los del archivo.
type sourceReader struct {
	r   io.Reader
	err error
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		s.err = err
	}
	return n, err
}

// Open abre el artefacto para lectura.
func (f *File) Open() (*os.File, error) {
	return os.Open(f.Path)
}

// Remove borra el artefacto una sola vez; llamadas siguientes retornan el
// mismo resultado. Que el archivo ya no exista no es error.
func (f *File) Remove() error {
	f.once.Do(func() {
		err := os.Remove(f.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			f.removeErr = fmt.Errorf("spool: remove: %w", err)
		}
	})
	return f.removeErr
}

// safeName se queda con el último componente del nombre del cliente.
func safeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return "upload"
	}
	return name
}

package adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// File names of the document pair inside an adapter's directory.
const (
	AdapterFile  = "adapter.json"
	ManifestFile = "manifest.json"
)

// WriteError is returned when the document pair can't be persisted. The
// target directory is left as it was before the write started.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Writer persists bundles under a root directory, one subdirectory per slug.
type Writer struct {
	root   string
	logger *zap.Logger
}

// NewWriter creates a Writer rooted at root.
func NewWriter(root string, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{
		root:   root,
		logger: logger.With(zap.String("component", "adapter_writer")),
	}
}

type pendingFile struct {
	name   string
	data   []byte
	temp   string
	final  string
	backup string
}

// Write stores b as <root>/<slug>/adapter.json and manifest.json, replacing
// existing files. Both documents are encoded before anything touches the disk
// and are swapped into place together: if any step fails, the files that were
// already replaced are restored and the error is returned.
func (w *Writer) Write(slug string, b *Bundle) (string, error) {
	if slug == "" || slug == "." || slug == ".." || filepath.Base(slug) != slug {
		return "", &WriteError{Path: slug, Err: errors.New("slug must be a single path element")}
	}

	adapterJSON, err := Marshal(b.Adapter)
	if err != nil {
		return "", &WriteError{Path: AdapterFile, Err: err}
	}
	manifestJSON, err := Marshal(b.Manifest)
	if err != nil {
		return "", &WriteError{Path: ManifestFile, Err: err}
	}

	dir := filepath.Join(w.root, slug)
	_, statErr := os.Stat(dir)
	created := os.IsNotExist(statErr)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &WriteError{Path: dir, Err: err}
	}

	files := []*pendingFile{
		{name: AdapterFile, data: adapterJSON},
		{name: ManifestFile, data: manifestJSON},
	}

	fail := func(path string, err error) (string, error) {
		w.discard(files)
		if created {
			_ = os.Remove(dir)
		}
		w.logger.Error("write failed, previous files restored", zap.String("path", path), zap.Error(err))
		return "", &WriteError{Path: path, Err: err}
	}

	for _, f := range files {
		f.final = filepath.Join(dir, f.name)
		f.temp, err = writeTemp(dir, f.name, f.data)
		if err != nil {
			return fail(f.final, err)
		}
	}

	for i, f := range files {
		if _, err := os.Stat(f.final); err == nil {
			f.backup = f.final + ".bak"
			if err := os.Rename(f.final, f.backup); err != nil {
				f.backup = ""
				w.rollback(files[:i])
				return fail(f.final, err)
			}
		}
		if err := os.Rename(f.temp, f.final); err != nil {
			w.rollback(files[:i+1])
			return fail(f.final, err)
		}
		f.temp = ""
	}

	for _, f := range files {
		if f.backup != "" {
			_ = os.Remove(f.backup)
		}
	}

	w.logger.Debug("wrote adapter", zap.String("dir", dir))
	return dir, nil
}

// rollback puts back the files that had already been swapped in.
func (w *Writer) rollback(files []*pendingFile) {
	for i := len(files) - 1; i >= 0; i-- {
		f := files[i]
		if f.backup != "" {
			_ = os.Rename(f.backup, f.final)
			f.backup = ""
		} else if f.temp == "" {
			_ = os.Remove(f.final)
		}
	}
}

// discard removes staged temp files that were never committed.
func (w *Writer) discard(files []*pendingFile) {
	for _, f := range files {
		if f.temp != "" {
			_ = os.Remove(f.temp)
		}
	}
}

// Marshal encodes v the way documents are stored: two-space indentation, no
// HTML escaping, trailing newline.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTemp(dir, name string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", err
	}
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

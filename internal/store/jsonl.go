package store

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileBackend is a MemoryBackend mirrored to a JSONL file. Every mutation
// rewrites the whole file through a temp file and keeps the previous
// version as <path>.bak. The file is written before the in-memory copy
// changes, so a failed write leaves both as they were.
type FileBackend[T Entity] struct {
	*MemoryBackend[T]
	mu   sync.Mutex
	path string
}

// OpenFileBackend loads path if it exists. The parent directory is created.
func OpenFileBackend[T Entity](path string) (*FileBackend[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir for %s", path)
	}
	b := &FileBackend[T]{MemoryBackend: NewMemoryBackend[T](), path: path}
	recs, err := ReadJSONLFile[T](path)
	if err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, err
	}
	b.load(recs)
	return b, nil
}

func (b *FileBackend[T]) Path() string {
	return b.path
}

func (b *FileBackend[T]) Insert(ctx context.Context, rec T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.MemoryBackend.Get(ctx, rec.EntityID()); err == nil {
		return ErrDuplicateID
	}
	if err := b.save(ctx, rec.EntityID(), &rec); err != nil {
		return err
	}
	return b.MemoryBackend.Insert(ctx, rec)
}

func (b *FileBackend[T]) Update(ctx context.Context, rec T) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.MemoryBackend.Get(ctx, rec.EntityID()); err != nil {
		return err
	}
	if err := b.save(ctx, rec.EntityID(), &rec); err != nil {
		return err
	}
	return b.MemoryBackend.Update(ctx, rec)
}

func (b *FileBackend[T]) Delete(ctx context.Context, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.MemoryBackend.Get(ctx, id); err != nil {
		return err
	}
	if err := b.save(ctx, id, nil); err != nil {
		return err
	}
	return b.MemoryBackend.Delete(ctx, id)
}

// save writes the current records with id replaced by rec, or dropped when
// rec is nil. New ids are placed in id order.
func (b *FileBackend[T]) save(ctx context.Context, id int64, rec *T) error {
	cur, err := b.MemoryBackend.List(ctx)
	if err != nil {
		return err
	}
	recs := make([]T, 0, len(cur)+1)
	placed := rec == nil
	for _, r := range cur {
		rid := r.EntityID()
		if !placed && rid > id {
			recs = append(recs, *rec)
			placed = true
		}
		if rid == id {
			if rec != nil {
				recs = append(recs, *rec)
				placed = true
			}
			continue
		}
		recs = append(recs, r)
	}
	if !placed {
		recs = append(recs, *rec)
	}
	return WriteJSONLFile(b.path, recs)
}

// ReadJSONL decodes one record per non-blank line.
func ReadJSONL[T any](r io.Reader) ([]T, error) {
	var out []T
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, errors.Wrapf(err, "decode line %d", line)
		}
		out = append(out, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read jsonl")
	}
	return out, nil
}

// WriteJSONL encodes recs one per line.
func WriteJSONL[T any](w io.Writer, recs []T) error {
	bw := bufio.NewWriter(w)
	for _, rec := range recs {
		raw, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrap(err, "encode record")
		}
		if _, err := bw.Write(raw); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func ReadJSONLFile[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer f.Close()
	recs, err := ReadJSONL[T](f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return recs, nil
}

// WriteJSONLFile replaces path atomically on POSIX filesystems, keeping the
// previous content as path.bak.
func WriteJSONLFile[T any](path string, recs []T) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", path)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSONL(tmp, recs); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Rename(path, path+".bak"); err != nil {
			return errors.Wrapf(err, "backup %s", path)
		}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replace %s", path)
	}
	return nil
}

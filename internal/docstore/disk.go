package docstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Majdiscode/calinode/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Disk is the local fallback document store. Every document lives as a
// JSON file under the root path, mirroring the document path layout.
type Disk struct {
	rootPath string
	mutex    sync.RWMutex
}

var _ Store = (*Disk)(nil)

func NewDisk(rootPath string) (*Disk, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("create root path: %w", err)
	}
	return &Disk{
		rootPath: rootPath,
	}, nil
}

func (s *Disk) filePath(path string) string {
	return filepath.Join(s.rootPath, filepath.FromSlash(path)) + ".json"
}

func (s *Disk) Get(ctx context.Context, path string) (_ []byte, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "docstore.disk.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	doc, err := os.ReadFile(s.filePath(path))
	if os.IsNotExist(err) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read document file: %w", err)
	}

	return doc, nil
}

func (s *Disk) Set(ctx context.Context, path string, doc []byte) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "docstore.disk.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	filePath := s.filePath(path)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return fmt.Errorf("create document dir: %w", err)
	}
	if err := os.WriteFile(filePath, doc, 0o644); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}

	return nil
}

func (s *Disk) Delete(ctx context.Context, path string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "docstore.disk.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	err = os.Remove(s.filePath(path))
	if os.IsNotExist(err) {
		return ErrDocumentNotFound
	}
	return err
}

func (s *Disk) DeleteTree(ctx context.Context, path string) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "docstore.disk.deletetree")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// a tree prefix can match both a document and a whole directory of them
	if err := os.RemoveAll(s.filePath(path)); err != nil {
		return fmt.Errorf("remove document file: %w", err)
	}
	if err := os.RemoveAll(filepath.Join(s.rootPath, filepath.FromSlash(path))); err != nil {
		return fmt.Errorf("remove document dir: %w", err)
	}

	return nil
}

func (s *Disk) ListUserIDs(ctx context.Context) (_ []string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "docstore.disk.listuserids")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entries, err := os.ReadDir(filepath.Join(s.rootPath, "users"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read users dir: %w", err)
	}

	var userIDs []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			// a top-level user document, e.g. users/<uid>.json
			name = strings.TrimSuffix(name, ".json")
		}
		userIDs = append(userIDs, name)
	}

	return userIDs, nil
}

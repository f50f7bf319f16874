package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Majdiscode/calinode/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

const (
	// ~8MB of cached documents, progression docs are tiny
	fallbackCacheSize     = 8 * 1024 * 1024
	fallbackCacheTTLInSec = 60 * 10
)

// FallbackStore combines the remote store with the local fallback one:
//   - every write goes to the remote store AND to the local backup,
//     regardless of the remote outcome
//   - reads prefer the remote store and fall back to the local copy when
//     the remote document is absent or errors out
//
// A freecache layer sits in front of reads; it is invalidated on writes.
type FallbackStore struct {
	remote Store
	local  Store
	cache  *freecache.Cache
}

var _ Store = (*FallbackStore)(nil)

func NewFallbackStore(remote, local Store) *FallbackStore {
	return &FallbackStore{
		remote: remote,
		local:  local,
		cache:  freecache.NewCache(fallbackCacheSize),
	}
}

func (s *FallbackStore) Get(ctx context.Context, path string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.fallback.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	if cached, err := s.cache.Get([]byte(path)); err == nil {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	doc, remoteErr := s.remote.Get(ctx, path)
	if remoteErr == nil {
		s.cacheSet(path, doc)
		return doc, nil
	}

	if !errors.Is(remoteErr, ErrDocumentNotFound) {
		log.Warnf("remote store get [%s] failed, falling back to local: %s", path, remoteErr)
	}

	doc, localErr := s.local.Get(ctx, path)
	if localErr != nil {
		if errors.Is(remoteErr, ErrDocumentNotFound) && errors.Is(localErr, ErrDocumentNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document [%s]: %w", path, multierr.Combine(remoteErr, localErr))
	}

	s.cacheSet(path, doc)
	return doc, nil
}

func (s *FallbackStore) Set(ctx context.Context, path string, doc []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.fallback.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	remoteErr := s.remote.Set(ctx, path, doc)
	if remoteErr != nil {
		log.Errorf("remote store set [%s] failed: %s", path, remoteErr)
	}

	// local backup is written on every save attempt, regardless of the remote outcome
	localErr := s.local.Set(ctx, path, doc)
	if localErr != nil {
		log.Errorf("local store set [%s] failed: %s", path, localErr)
	}

	s.cacheSet(path, doc)

	return multierr.Combine(remoteErr, localErr)
}

func (s *FallbackStore) Delete(ctx context.Context, path string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.fallback.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	s.cache.Del([]byte(path))

	remoteErr := s.remote.Delete(ctx, path)
	if errors.Is(remoteErr, ErrDocumentNotFound) {
		remoteErr = nil
	}
	localErr := s.local.Delete(ctx, path)
	if errors.Is(localErr, ErrDocumentNotFound) {
		localErr = nil
	}

	return multierr.Combine(remoteErr, localErr)
}

func (s *FallbackStore) DeleteTree(ctx context.Context, path string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.fallback.deletetree")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	s.cache.Clear()

	return multierr.Combine(
		s.remote.DeleteTree(ctx, path),
		s.local.DeleteTree(ctx, path),
	)
}

func (s *FallbackStore) ListUserIDs(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.fallback.listuserids")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	userIDs, remoteErr := s.remote.ListUserIDs(ctx)
	if remoteErr == nil {
		return userIDs, nil
	}

	log.Warnf("remote store list user ids failed, falling back to local: %s", remoteErr)
	return s.local.ListUserIDs(ctx)
}

func (s *FallbackStore) cacheSet(path string, doc []byte) {
	if err := s.cache.Set([]byte(path), doc, fallbackCacheTTLInSec); err != nil {
		log.Tracef("cache set [%s]: %s", path, err)
	}
}

package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Majdiscode/calinode/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// PG is the remote document store, a single jsonb documents table in postgres.
type PG struct {
	db *pgxpool.Pool
}

var _ Store = (*PG)(nil)

func NewPG(db *pgxpool.Pool) *PG {
	return &PG{
		db: db,
	}
}

func (s *PG) Get(ctx context.Context, path string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.pg.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	var doc []byte
	err = s.db.QueryRow(
		ctx,
		`SELECT doc FROM document WHERE path = $1;`,
		path,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query document: %w", err)
	}

	return doc, nil
}

func (s *PG) Set(ctx context.Context, path string, doc []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.pg.set")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO document (path, doc, updated_at)
				VALUES ($1, $2, $3)
			ON CONFLICT (path) DO UPDATE SET doc = $2, updated_at = $3;`,
		path, doc, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}

	return nil
}

func (s *PG) Delete(ctx context.Context, path string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.pg.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	tag, err := s.db.Exec(
		ctx,
		`DELETE FROM document WHERE path = $1;`,
		path,
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}

	return nil
}

func (s *PG) DeleteTree(ctx context.Context, path string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.pg.deletetree")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("path", path))

	_, err = s.db.Exec(
		ctx,
		`DELETE FROM document WHERE path = $1 OR path LIKE $1 || '/%';`,
		path,
	)
	if err != nil {
		return fmt.Errorf("delete document tree: %w", err)
	}

	return nil
}

func (s *PG) ListUserIDs(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.pg.listuserids")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := s.db.Query(
		ctx,
		`SELECT DISTINCT split_part(path, '/', 2) FROM document WHERE path LIKE 'users/%';`,
	)
	if err != nil {
		return nil, fmt.Errorf("query user ids: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		userIDs = append(userIDs, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return userIDs, nil
}

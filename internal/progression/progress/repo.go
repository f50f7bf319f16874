package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Majdiscode/calinode/internal/docstore"
	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
)

type Repo struct {
	store docstore.Store
}

func NewRepo(store docstore.Store) *Repo {
	return &Repo{store: store}
}

func progressPath(userID string) string {
	return fmt.Sprintf("users/%s/userProgress", userID)
}

// Get returns the user's progress ledger, or a fresh empty one when the
// user has no stored ledger yet.
func (r *Repo) Get(ctx context.Context, userID string) (_ *UserProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progressRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc, err := r.store.Get(ctx, progressPath(userID))
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return NewUserProgress(), nil
		}
		return nil, fmt.Errorf("get user progress: %w", err)
	}

	var up UserProgress
	if err := json.Unmarshal(doc, &up); err != nil {
		return nil, fmt.Errorf("unmarshal user progress: %w", err)
	}
	up.fillDefaults()
	return &up, nil
}

func (r *Repo) Save(ctx context.Context, userID string, up *UserProgress) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progressRepo.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc, err := json.Marshal(up)
	if err != nil {
		return fmt.Errorf("marshal user progress: %w", err)
	}
	if err := r.store.Set(ctx, progressPath(userID), doc); err != nil {
		return fmt.Errorf("save user progress: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progressRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if err := r.store.Delete(ctx, progressPath(userID)); err != nil && !errors.Is(err, docstore.ErrDocumentNotFound) {
		return fmt.Errorf("delete user progress: %w", err)
	}
	return nil
}

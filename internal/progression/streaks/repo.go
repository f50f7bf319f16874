package streaks

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

func streaksPath(userID string) string {
	return fmt.Sprintf("users/%s/streaks/data", userID)
}

// Get returns the user's streak ledger, or an empty one for new users.
func (r *Repo) Get(ctx context.Context, userID string) (_ *StreakData, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streaksRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc, err := r.store.Get(ctx, streaksPath(userID))
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return NewStreakData(), nil
		}
		return nil, fmt.Errorf("get streak data: %w", err)
	}

	var s StreakData
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("unmarshal streak data: %w", err)
	}
	s.fillDefaults()
	return &s, nil
}

func (r *Repo) Save(ctx context.Context, userID string, s *StreakData) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streaksRepo.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal streak data: %w", err)
	}
	if err := r.store.Set(ctx, streaksPath(userID), doc); err != nil {
		return fmt.Errorf("save streak data: %w", err)
	}
	return nil
}

// Reset wipes the whole streak ledger of a user.
func (r *Repo) Reset(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "streaksRepo.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.store.DeleteTree(ctx, fmt.Sprintf("users/%s/streaks", userID)); err != nil &&
		!errors.Is(err, docstore.ErrDocumentNotFound) {
		return fmt.Errorf("reset streak data: %w", err)
	}
	return nil
}

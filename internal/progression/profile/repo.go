package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Majdiscode/calinode/internal/docstore"
	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
)

// ErrProfileNotFound is returned for users that never completed an assessment.
var ErrProfileNotFound = errors.New("capability profile not found")

type Repo struct {
	store docstore.Store
}

func NewRepo(store docstore.Store) *Repo {
	return &Repo{store: store}
}

func profilePath(userID string) string {
	return fmt.Sprintf("users/%s/capabilityProfile", userID)
}

func (r *Repo) Get(ctx context.Context, userID string) (_ *CapabilityProfile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profileRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc, err := r.store.Get(ctx, profilePath(userID))
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get capability profile: %w", err)
	}

	var p CapabilityProfile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("unmarshal capability profile: %w", err)
	}
	if !p.FitnessLevel.IsValid() {
		p.FitnessLevel = LevelBeginner
	}
	if p.WeeklyGoalMultiplier == 0 {
		p.WeeklyGoalMultiplier = DefaultWeeklyGoalMultiplier
	}
	return &p, nil
}

func (r *Repo) Save(ctx context.Context, userID string, p *CapabilityProfile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profileRepo.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal capability profile: %w", err)
	}
	if err := r.store.Set(ctx, profilePath(userID), doc); err != nil {
		return fmt.Errorf("save capability profile: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "profileRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	return r.store.Delete(ctx, profilePath(userID))
}

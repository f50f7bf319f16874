package quests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Majdiscode/calinode/internal/docstore"
	"github.com/Majdiscode/calinode/internal/telemetry/tracing"
)

// ErrNoDailySet is returned when a user has no generated quest set.
var ErrNoDailySet = errors.New("daily quest set not found")

type Repo struct {
	store docstore.Store
}

func NewRepo(store docstore.Store) *Repo {
	return &Repo{store: store}
}

func dailySetPath(userID string) string {
	return fmt.Sprintf("users/%s/quests/daily", userID)
}

func historyPath(userID, day string) string {
	return fmt.Sprintf("users/%s/quests/daily/history/%s", userID, day)
}

func (r *Repo) GetDailySet(ctx context.Context, userID string) (_ *DailySet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "questsRepo.getDailySet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc, err := r.store.Get(ctx, dailySetPath(userID))
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return nil, ErrNoDailySet
		}
		return nil, fmt.Errorf("get daily quest set: %w", err)
	}

	var ds DailySet
	if err := json.Unmarshal(doc, &ds); err != nil {
		return nil, fmt.Errorf("unmarshal daily quest set: %w", err)
	}
	return &ds, nil
}

func (r *Repo) SaveDailySet(ctx context.Context, userID string, ds *DailySet) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "questsRepo.saveDailySet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("marshal daily quest set: %w", err)
	}
	if err := r.store.Set(ctx, dailySetPath(userID), doc); err != nil {
		return fmt.Errorf("save daily quest set: %w", err)
	}
	return nil
}

// ArchiveDay stores the dated snapshot of a daily set under the user's
// quest history.
func (r *Repo) ArchiveDay(ctx context.Context, userID string, archived ArchivedDay) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "questsRepo.archiveDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc, err := json.Marshal(archived)
	if err != nil {
		return fmt.Errorf("marshal archived quest day: %w", err)
	}
	if err := r.store.Set(ctx, historyPath(userID, archived.Date), doc); err != nil {
		return fmt.Errorf("archive quest day: %w", err)
	}
	return nil
}

func (r *Repo) GetArchivedDay(ctx context.Context, userID, day string) (_ *ArchivedDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "questsRepo.getArchivedDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	doc, err := r.store.Get(ctx, historyPath(userID, day))
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return nil, ErrNoDailySet
		}
		return nil, fmt.Errorf("get archived quest day: %w", err)
	}

	var archived ArchivedDay
	if err := json.Unmarshal(doc, &archived); err != nil {
		return nil, fmt.Errorf("unmarshal archived quest day: %w", err)
	}
	return &archived, nil
}

// Reset wipes the current set and the whole quest history of a user.
func (r *Repo) Reset(ctx context.Context, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "questsRepo.reset")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.store.DeleteTree(ctx, fmt.Sprintf("users/%s/quests", userID)); err != nil &&
		!errors.Is(err, docstore.ErrDocumentNotFound) {
		return fmt.Errorf("reset quests: %w", err)
	}
	return nil
}

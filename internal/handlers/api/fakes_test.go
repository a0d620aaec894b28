package api

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"contentradar/internal/db"
	"contentradar/internal/models"
)

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory stand-in for *db.DB that mirrors the
// store's query semantics.
type fakeStore struct {
	keywords      map[int64]models.Keyword
	topics        map[int64]models.Topic
	runs          map[int64]models.PipelineRun
	nextKeywordID int64
	nextTopicID   int64
	nextRunID     int64
	failing       bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		keywords: make(map[int64]models.Keyword),
		topics:   make(map[int64]models.Topic),
		runs:     make(map[int64]models.PipelineRun),
	}
}

func (f *fakeStore) addKeyword(term string, score float64, matchedApp *string, pageExists bool) models.Keyword {
	f.nextKeywordID++
	kw := models.Keyword{
		ID:             f.nextKeywordID,
		Term:           term,
		StrategicScore: score,
		MatchedApp:     matchedApp,
		PageExists:     pageExists,
		LastSeen:       time.Now(),
		CreatedAt:      time.Now(),
	}
	f.keywords[kw.ID] = kw
	return kw
}

func (f *fakeStore) addTopic(label string, queries []string, status string) models.Topic {
	f.nextTopicID++
	topic := models.Topic{
		ID:            f.nextTopicID,
		Label:         label,
		SearchQueries: queries,
		Status:        status,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.topics[topic.ID] = topic
	return topic
}

func (f *fakeStore) addRun(topicID int64, startedAt time.Time) models.PipelineRun {
	f.nextRunID++
	run := models.PipelineRun{
		ID:        f.nextRunID,
		TopicID:   topicID,
		JobID:     uuid.New(),
		Status:    models.RunStarted,
		StartedAt: startedAt,
	}
	f.runs[run.ID] = run
	return run
}

func (f *fakeStore) GapCandidates(_ context.Context, limit int) ([]models.Keyword, error) {
	if f.failing {
		return nil, errStoreDown
	}
	var out []models.Keyword
	for _, kw := range f.keywords {
		if kw.IsGap() {
			out = append(out, kw)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StrategicScore != out[j].StrategicScore {
			return out[i].StrategicScore > out[j].StrategicScore
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateCoverage(_ context.Context, id int64, pageExists bool) (*models.Keyword, error) {
	if f.failing {
		return nil, errStoreDown
	}
	kw, ok := f.keywords[id]
	if !ok {
		return nil, db.ErrKeywordNotFound
	}
	kw.PageExists = pageExists
	if now := time.Now(); now.After(kw.LastSeen) {
		kw.LastSeen = now
	}
	f.keywords[id] = kw
	return &kw, nil
}

func (f *fakeStore) UpsertKeyword(_ context.Context, kw *models.Keyword) error {
	if f.failing {
		return errStoreDown
	}
	for id, existing := range f.keywords {
		if existing.Term == kw.Term {
			existing.StrategicScore = kw.StrategicScore
			existing.MatchedApp = kw.MatchedApp
			if now := time.Now(); now.After(existing.LastSeen) {
				existing.LastSeen = now
			}
			f.keywords[id] = existing
			*kw = existing
			return nil
		}
	}
	created := f.addKeyword(kw.Term, kw.StrategicScore, kw.MatchedApp, false)
	*kw = created
	return nil
}

func (f *fakeStore) ListKeywords(_ context.Context, filter models.KeywordFilter) ([]models.Keyword, error) {
	if f.failing {
		return nil, errStoreDown
	}
	var out []models.Keyword
	for _, kw := range f.keywords {
		if filter.UncoveredOnly && !kw.IsGap() {
			continue
		}
		if filter.MinScore > 0 && kw.StrategicScore < filter.MinScore {
			continue
		}
		if filter.Term != "" && !strings.Contains(kw.Term, filter.Term) {
			continue
		}
		out = append(out, kw)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StrategicScore != out[j].StrategicScore {
			return out[i].StrategicScore > out[j].StrategicScore
		}
		return out[i].ID < out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) ListTopics(_ context.Context) ([]models.Topic, error) {
	if f.failing {
		return nil, errStoreDown
	}
	var out []models.Topic
	for _, topic := range f.topics {
		out = append(out, topic)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeStore) GetTopicByID(_ context.Context, id int64) (*models.Topic, error) {
	if f.failing {
		return nil, errStoreDown
	}
	topic, ok := f.topics[id]
	if !ok {
		return nil, db.ErrTopicNotFound
	}
	return &topic, nil
}

func (f *fakeStore) CreateTopic(_ context.Context, topic *models.Topic) error {
	if f.failing {
		return errStoreDown
	}
	if topic.Status == "" {
		topic.Status = models.TopicPlanned
	}
	f.nextTopicID++
	topic.ID = f.nextTopicID
	topic.CreatedAt = time.Now()
	topic.UpdatedAt = time.Now()
	f.topics[topic.ID] = *topic
	return nil
}

func (f *fakeStore) UpdateTopic(_ context.Context, topic *models.Topic) error {
	if f.failing {
		return errStoreDown
	}
	if _, ok := f.topics[topic.ID]; !ok {
		return db.ErrTopicNotFound
	}
	topic.UpdatedAt = time.Now()
	f.topics[topic.ID] = *topic
	return nil
}

func (f *fakeStore) DeleteTopic(_ context.Context, id int64) error {
	if f.failing {
		return errStoreDown
	}
	delete(f.topics, id)
	return nil
}

func (f *fakeStore) ListRecentRuns(_ context.Context, limit int) ([]models.PipelineRun, error) {
	if f.failing {
		return nil, errStoreDown
	}
	var out []models.PipelineRun
	for _, run := range f.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) CreateRun(_ context.Context, run *models.PipelineRun) error {
	if f.failing {
		return errStoreDown
	}
	created := f.addRun(run.TopicID, time.Now())
	created.Detail = run.Detail
	f.runs[created.ID] = created
	*run = created
	return nil
}

func (f *fakeStore) FinishRun(_ context.Context, id int64, status, detail string) (*models.PipelineRun, error) {
	if f.failing {
		return nil, errStoreDown
	}
	run, ok := f.runs[id]
	if !ok {
		return nil, db.ErrRunNotFound
	}
	if !models.ValidRunTransition(models.RunStarted, status) {
		return nil, db.ErrInvalidRunStatus
	}
	if run.Status != models.RunStarted {
		return nil, db.ErrRunFinished
	}
	now := time.Now()
	run.Status = status
	run.Detail = detail
	run.FinishedAt = &now
	f.runs[id] = run
	return &run, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"alfredoptarigan/interview-builder/internal/models"
)

var ErrDraftNotFound = errors.New("draft not found")

// maxUpdateAttempts bounds optimistic retries when two requests race on the
// same draft.
const maxUpdateAttempts = 5

// DraftStore keeps wizard drafts between requests.
type DraftStore interface {
	Create(ctx context.Context, draft *models.Draft) error
	Get(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	// Update applies fn to the stored draft atomically. If fn returns an
	// error nothing is written and the error is returned unchanged.
	Update(ctx context.Context, id uuid.UUID, fn func(*models.Draft) error) (*models.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type redisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftStore(client *redis.Client, ttl time.Duration) DraftStore {
	return &redisDraftStore{
		client: client,
		ttl:    ttl,
	}
}

func draftKey(id uuid.UUID) string {
	return "interview:draft:" + id.String()
}

// Create implements DraftStore.
func (s *redisDraftStore) Create(ctx context.Context, draft *models.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft %s: %w", draft.ID, err)
	}

	if err := s.client.Set(ctx, draftKey(draft.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store draft %s: %w", draft.ID, err)
	}

	return nil
}

// Get implements DraftStore.
func (s *redisDraftStore) Get(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	data, err := s.client.Get(ctx, draftKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("get draft %s: %w", id, err)
	}

	var draft models.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft %s: %w", id, err)
	}

	return &draft, nil
}

// Update implements DraftStore using WATCH/MULTI so concurrent writers never
// overwrite each other.
func (s *redisDraftStore) Update(ctx context.Context, id uuid.UUID, fn func(*models.Draft) error) (*models.Draft, error) {
	key := draftKey(id)
	var updated *models.Draft

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				return ErrDraftNotFound
			}
			return fmt.Errorf("get draft %s: %w", id, err)
		}

		var draft models.Draft
		if err := json.Unmarshal(data, &draft); err != nil {
			return fmt.Errorf("unmarshal draft %s: %w", id, err)
		}

		if err := fn(&draft); err != nil {
			return err
		}
		draft.UpdatedAt = time.Now().UTC()

		payload, err := json.Marshal(&draft)
		if err != nil {
			return fmt.Errorf("marshal draft %s: %w", id, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}

		updated = &draft
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if err != redis.TxFailedErr {
			return nil, err
		}
	}

	return nil, fmt.Errorf("update draft %s: too many concurrent writers", id)
}

// Delete implements DraftStore.
func (s *redisDraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.client.Del(ctx, draftKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	if n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

type memoryDraftEntry struct {
	data      []byte
	expiresAt time.Time
}

type memoryDraftStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	drafts  map[uuid.UUID]memoryDraftEntry
	nowFunc func() time.Time
}

// NewMemoryDraftStore is used when no Redis address is configured. Drafts
// are copied in and out so callers never share state with the store.
func NewMemoryDraftStore(ttl time.Duration) DraftStore {
	return &memoryDraftStore{
		ttl:     ttl,
		drafts:  make(map[uuid.UUID]memoryDraftEntry),
		nowFunc: time.Now,
	}
}

func (s *memoryDraftStore) put(draft *models.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft %s: %w", draft.ID, err)
	}
	s.drafts[draft.ID] = memoryDraftEntry{data: data, expiresAt: s.nowFunc().Add(s.ttl)}
	return nil
}

// load returns a fresh copy; callers hold mu.
func (s *memoryDraftStore) load(id uuid.UUID) (*models.Draft, error) {
	entry, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if s.ttl > 0 && s.nowFunc().After(entry.expiresAt) {
		delete(s.drafts, id)
		return nil, ErrDraftNotFound
	}

	var draft models.Draft
	if err := json.Unmarshal(entry.data, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft %s: %w", id, err)
	}
	return &draft, nil
}

// Create implements DraftStore.
func (s *memoryDraftStore) Create(ctx context.Context, draft *models.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.put(draft)
}

// Get implements DraftStore.
func (s *memoryDraftStore) Get(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

// Update implements DraftStore.
func (s *memoryDraftStore) Update(ctx context.Context, id uuid.UUID, fn func(*models.Draft) error) (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}
	draft.UpdatedAt = s.nowFunc().UTC()

	if err := s.put(draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Delete implements DraftStore.
func (s *memoryDraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(id); err != nil {
		return err
	}
	delete(s.drafts, id)
	return nil
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/app/repository"
)

const (
	defaultPrefix     = "tabscribe"
	maxUpdateAttempts = 16
)

// Store keeps each recording as a JSON string plus a sorted-set index
// scored by creation time. Update uses WATCH/MULTI and retries on conflict.
type Store struct {
	client *redis.Client
	prefix string
}

// New creates a Store from a redis:// URL
func New(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	return NewWithClient(redis.NewClient(opts), defaultPrefix), nil
}

// NewWithClient wraps an existing client. Keys are namespaced under prefix.
func NewWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Ping checks connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) recordingKey(id string) string {
	return fmt.Sprintf("%s:recording:%s", s.prefix, id)
}

func (s *Store) indexKey() string {
	return s.prefix + ":recordings"
}

func (s *Store) Put(ctx context.Context, rec *model.Recording) error {
	if rec == nil || rec.ID == "" {
		return errors.New("recording id is required")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encode recording")
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recordingKey(rec.ID), data, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(rec.CreatedAt.UnixMilli()), Member: rec.ID})
		return nil
	})
	return err
}

func (s *Store) Get(ctx context.Context, id string) (*model.Recording, error) {
	data, err := s.client.Get(ctx, s.recordingKey(id)).Bytes()
	if err == redis.Nil {
		return nil, errors.Wrapf(repository.ErrNotFound, "id %s", id)
	}
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (s *Store) GetAll(ctx context.Context) ([]*model.Recording, error) {
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	recordings := make([]*model.Recording, 0, len(ids))
	if len(ids) == 0 {
		return recordings, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordingKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			// index entry without a record; removed by a concurrent Delete
			continue
		}
		rec, err := decode([]byte(str))
		if err != nil {
			return nil, err
		}
		recordings = append(recordings, rec)
	}

	repository.SortNewestFirst(recordings)
	return recordings, nil
}

// Update retries fn on a fresh copy whenever another writer touches the key
// between the read and the commit, so fn must only depend on its argument.
func (s *Store) Update(ctx context.Context, id string, fn repository.UpdateFunc) (*model.Recording, error) {
	key := s.recordingKey(id)
	var result *model.Recording

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return errors.Wrapf(repository.ErrNotFound, "id %s", id)
		}
		if err != nil {
			return err
		}

		rec, err := decode(data)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
		rec.ID = id

		encoded, err := json.Marshal(rec)
		if err != nil {
			return errors.Wrap(err, "encode recording")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(rec.CreatedAt.UnixMilli()), Member: id})
			return nil
		})
		if err == nil {
			result = rec
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return nil, err
	}
	return nil, errors.Newf("update of %s conflicted %d times", id, maxUpdateAttempts)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.recordingKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	if err != nil {
		return err
	}
	if del.Val() == 0 {
		return errors.Wrapf(repository.ErrNotFound, "id %s", id)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, s.recordingKey(id))
	}
	keys = append(keys, s.indexKey())
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func decode(data []byte) (*model.Recording, error) {
	var rec model.Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decode recording")
	}
	return &rec, nil
}

var _ repository.RecordingStore = (*Store)(nil)

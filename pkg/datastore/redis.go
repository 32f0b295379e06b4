package datastore

import (
	"context"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

// RedisStore keeps each kind in one hash (field = id, value = JSON body)
// and assigns ids from an INCR counter next to it.
type RedisStore struct {
	prefix string
	conn   goredis.UniversalClient
}

type RedisOptions = goredis.UniversalOptions

func NewRedisStore(prefix string, opts *RedisOptions) (*RedisStore, error) {
	c := goredis.NewUniversalClient(opts)
	if cmd := c.Ping(context.Background()); cmd.Err() != nil {
		return nil, errors.Wrap(cmd.Err(), "datastore: redis ping failed")
	}
	return &RedisStore{prefix: prefix, conn: c}, nil
}

func (s *RedisStore) kindKey(kind string) string {
	return s.prefix + "kind:" + kind
}

func (s *RedisStore) seqKey(kind string) string {
	return s.prefix + "kind:" + kind + ":seq"
}

func (s *RedisStore) NextID(ctx context.Context, kind string) (int64, error) {
	cmd := s.conn.Incr(ctx, s.seqKey(kind))
	if err := cmd.Err(); err != nil {
		return 0, errors.Wrap(err, "datastore: incr sequence")
	}
	return cmd.Val(), nil
}

func (s *RedisStore) Put(ctx context.Context, kind string, id int64, data []byte) error {
	cmd := s.conn.HSet(ctx, s.kindKey(kind), strconv.FormatInt(id, 10), data)
	return errors.Wrap(cmd.Err(), "datastore: hset")
}

func (s *RedisStore) Get(ctx context.Context, kind string, id int64) (*Document, error) {
	cmd := s.conn.HGet(ctx, s.kindKey(kind), strconv.FormatInt(id, 10))
	if err := cmd.Err(); err != nil {
		if err == goredis.Nil {
			return nil, ErrNoSuchEntity
		}
		return nil, errors.Wrap(err, "datastore: hget")
	}
	b, err := cmd.Bytes()
	if err != nil {
		return nil, errors.Wrap(err, "datastore: hget bytes")
	}
	return &Document{ID: id, Data: b}, nil
}

func (s *RedisStore) Delete(ctx context.Context, kind string, id int64) error {
	cmd := s.conn.HDel(ctx, s.kindKey(kind), strconv.FormatInt(id, 10))
	if err := cmd.Err(); err != nil {
		return errors.Wrap(err, "datastore: hdel")
	}
	if cmd.Val() == 0 {
		return ErrNoSuchEntity
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, kind string) ([]*Document, error) {
	cmd := s.conn.HGetAll(ctx, s.kindKey(kind))
	if err := cmd.Err(); err != nil {
		return nil, errors.Wrap(err, "datastore: hgetall")
	}
	docs := make([]*Document, 0, len(cmd.Val()))
	for field, val := range cmd.Val() {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "datastore: bad id field %q in kind %q", field, kind)
		}
		docs = append(docs, &Document{ID: id, Data: []byte(val)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *RedisStore) Close() error {
	return s.conn.Close()
}

// Package redisdoc stores documents in Redis as JSON strings. Each
// collection keeps a set of its document IDs, and every write is announced
// on a per-collection pub/sub channel that drives live queries.
package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/observability/telemetry"
	"github.com/seu-repo/voicebook/internal/ports"
	"github.com/seu-repo/voicebook/pkg/docmap"
)

const maxTxAttempts = 5

type Store struct {
	client *redis.Client
	prefix string
	log    *zap.Logger
}

var _ ports.DocumentStore = (*Store)(nil)

// NewStore connects to url and verifies the connection.
func NewStore(url, prefix string, log *zap.Logger) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("Successfully connected to Redis", zap.String("prefix", prefix))
	return NewStoreFromClient(client, prefix, log), nil
}

func NewStoreFromClient(client *redis.Client, prefix string, log *zap.Logger) *Store {
	return &Store{client: client, prefix: prefix, log: log}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) docKey(collection, id string) string {
	return s.prefix + "doc:" + collection + ":" + id
}

func (s *Store) idsKey(collection string) string {
	return s.prefix + "ids:" + collection
}

func (s *Store) channel(collection string) string {
	return s.prefix + "changes:" + collection
}

func (s *Store) Get(ctx context.Context, collection, id string) (*docmap.Document, error) {
	defer observe("get", time.Now())
	raw, err := s.client.Get(ctx, s.docKey(collection, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &docmap.Document{ID: id, Data: data}, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any) error {
	defer observe("set", time.Now())
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		s.write(ctx, pipe, collection, id, raw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) write(ctx context.Context, pipe redis.Pipeliner, collection, id string, raw []byte) {
	pipe.Set(ctx, s.docKey(collection, id), raw, 0)
	pipe.SAdd(ctx, s.idsKey(collection), id)
	pipe.Publish(ctx, s.channel(collection), id)
}

func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.Set(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	defer observe("update", time.Now())
	return s.RunTransaction(ctx, func(ctx context.Context, tx ports.Txn) error {
		return tx.Update(collection, id, fields)
	})
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	defer observe("delete", time.Now())
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.docKey(collection, id))
		pipe.SRem(ctx, s.idsKey(collection), id)
		pipe.Publish(ctx, s.channel(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, filters []docmap.Filter, order *docmap.Order, limit int) ([]docmap.Document, error) {
	defer observe("query", time.Now())
	ids, err := s.client.SMembers(ctx, s.idsKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	out := make([]docmap.Document, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(collection, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			// deleted between SMEMBERS and MGET
			continue
		}
		data, err := decode([]byte(raw))
		if err != nil {
			s.log.Warn("Skipping undecodable document",
				zap.String("collection", collection),
				zap.String("id", ids[i]),
				zap.Error(err),
			)
			continue
		}
		d := docmap.Document{ID: ids[i], Data: data}
		if docmap.Match(d, filters) {
			out = append(out, d)
		}
	}
	docmap.Sort(out, order)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Subscribe listens on the collection channel before reading the initial
// result set, so no change between the two is lost. Later snapshots are
// delivered from a single goroutine, in order. Unsubscribe waits for that
// goroutine to exit, so no snapshot arrives after it returns.
func (s *Store) Subscribe(ctx context.Context, collection string, filters []docmap.Filter, order *docmap.Order, fn func([]docmap.Document)) (ports.Unsubscribe, error) {
	pubsub := s.client.Subscribe(ctx, s.channel(collection))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", collection, err)
	}

	docs, err := s.Query(ctx, collection, filters, order, 0)
	if err != nil {
		_ = pubsub.Close()
		return nil, err
	}
	fn(docs)

	subCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				docs, err := s.Query(subCtx, collection, filters, order, 0)
				if err != nil {
					if subCtx.Err() != nil {
						return
					}
					s.log.Warn("Live query refresh failed", zap.String("collection", collection), zap.Error(err))
					continue
				}
				if subCtx.Err() != nil {
					return
				}
				fn(docs)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
		<-done
	}, nil
}

// RunTransaction runs fn under WATCH on every key it reads. Writes are
// queued and applied in one MULTI/EXEC; if a watched key changed, fn runs
// again.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.Txn) error) error {
	defer observe("transaction", time.Now())
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
			t := &txn{ctx: ctx, store: s, rtx: rtx, writes: map[string]*txWrite{}}
			if err := fn(ctx, t); err != nil {
				return err
			}
			return t.commit()
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
		telemetry.TransactionRetriesTotal.Inc()
		s.log.Debug("Transaction conflict, retrying", zap.Int("attempt", attempt+1))
	}
	return domain.ErrTransactionConflict
}

type txWrite struct {
	collection string
	id         string
	data       map[string]any
}

type txn struct {
	ctx    context.Context
	store  *Store
	rtx    *redis.Tx
	writes map[string]*txWrite
	order  []string
}

var _ ports.Txn = (*txn)(nil)

func (t *txn) Get(collection, id string) (*docmap.Document, error) {
	key := t.store.docKey(collection, id)
	if w, ok := t.writes[key]; ok {
		data, err := docmap.Normalize(w.data)
		if err != nil {
			return nil, err
		}
		return &docmap.Document{ID: id, Data: data}, nil
	}
	if err := t.rtx.Watch(t.ctx, key).Err(); err != nil {
		return nil, err
	}
	raw, err := t.rtx.Get(t.ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := decode(raw)
	if err != nil {
		return nil, err
	}
	return &docmap.Document{ID: id, Data: data}, nil
}

func (t *txn) Set(collection, id string, data map[string]any) error {
	t.write(collection, id, data)
	return nil
}

func (t *txn) Update(collection, id string, fields map[string]any) error {
	doc, err := t.Get(collection, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	t.write(collection, id, docmap.Apply(doc.Data, fields))
	return nil
}

func (t *txn) write(collection, id string, data map[string]any) {
	key := t.store.docKey(collection, id)
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = &txWrite{collection: collection, id: id, data: data}
}

func (t *txn) commit() error {
	if len(t.order) == 0 {
		return nil
	}
	encoded := make([][]byte, len(t.order))
	for i, key := range t.order {
		raw, err := json.Marshal(t.writes[key].data)
		if err != nil {
			return err
		}
		encoded[i] = raw
	}
	_, err := t.rtx.TxPipelined(t.ctx, func(pipe redis.Pipeliner) error {
		for i, key := range t.order {
			w := t.writes[key]
			t.store.write(t.ctx, pipe, w.collection, w.id, encoded[i])
		}
		return nil
	})
	return err
}

func decode(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func observe(op string, start time.Time) {
	telemetry.StoreOperationLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

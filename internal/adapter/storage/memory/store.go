package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/voicebook/internal/domain"
	"github.com/seu-repo/voicebook/internal/observability/telemetry"
	"github.com/seu-repo/voicebook/internal/ports"
	"github.com/seu-repo/voicebook/pkg/docmap"
)

const maxTxAttempts = 5

type entry struct {
	data    map[string]any
	version uint64
}

type subscription struct {
	id         uint64
	collection string
	filters    []docmap.Filter
	order      *docmap.Order
	fn         func([]docmap.Document)

	mu        sync.Mutex
	delivered uint64
	closed    bool
}

// Store implements ports.DocumentStore in process memory. Subscribers are
// notified synchronously by the goroutine that made the change. Used for
// development and tests.
type Store struct {
	mu      sync.RWMutex
	data    map[string]map[string]*entry
	version uint64
	subs    map[uint64]*subscription
	nextSub uint64
	log     *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	log.Info("In-memory document store initialized")
	return &Store{
		data: make(map[string]map[string]*entry),
		subs: make(map[uint64]*subscription),
		log:  log,
	}
}

var _ ports.DocumentStore = (*Store)(nil)

func (s *Store) Get(ctx context.Context, collection, id string) (*docmap.Document, error) {
	defer observe("get", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[collection][id]
	if !ok {
		return nil, nil
	}
	return &docmap.Document{ID: id, Data: clone(e.data)}, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data map[string]any) error {
	defer observe("set", time.Now())
	norm, err := docmap.Normalize(data)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	s.mu.Lock()
	s.put(collection, id, norm)
	s.mu.Unlock()
	s.notify(collection)
	return nil
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
	s.mu.Lock()
	e, ok := s.data[collection][id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("update %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	s.put(collection, id, docmap.Apply(clone(e.data), fields))
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	defer observe("delete", time.Now())
	s.mu.Lock()
	if _, ok := s.data[collection][id]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.data[collection], id)
	s.version++
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

func (s *Store) Query(ctx context.Context, collection string, filters []docmap.Filter, order *docmap.Order, limit int) ([]docmap.Document, error) {
	defer observe("query", time.Now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query(collection, filters, order, limit), nil
}

// Subscribe delivers the current result set before returning.
func (s *Store) Subscribe(ctx context.Context, collection string, filters []docmap.Filter, order *docmap.Order, fn func([]docmap.Document)) (ports.Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.nextSub++
	sub := &subscription{
		id:         s.nextSub,
		collection: collection,
		filters:    filters,
		order:      order,
		fn:         fn,
	}
	s.subs[sub.id] = sub
	version := s.version
	docs := s.query(collection, filters, order, 0)
	s.mu.Unlock()

	sub.deliver(version, docs)

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, sub.id)
			s.mu.Unlock()
			sub.mu.Lock()
			sub.closed = true
			sub.mu.Unlock()
		})
	}
	stop := context.AfterFunc(ctx, unsubscribe)
	return func() {
		stop()
		unsubscribe()
	}, nil
}

// RunTransaction runs fn with optimistic concurrency: documents read in the
// transaction must be unchanged at commit, otherwise fn runs again.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx ports.Txn) error) error {
	defer observe("transaction", time.Now())
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tx := &txn{store: s, reads: map[string]uint64{}, writes: map[string]*txWrite{}}
		if err := fn(ctx, tx); err != nil {
			return err
		}
		collections, ok := s.commit(tx)
		if ok {
			for _, c := range collections {
				s.notify(c)
			}
			return nil
		}
		telemetry.TransactionRetriesTotal.Inc()
		s.log.Debug("Transaction conflict, retrying", zap.Int("attempt", attempt+1))
	}
	return domain.ErrTransactionConflict
}

func (s *Store) commit(tx *txn) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, seen := range tx.reads {
		c, id := splitKey(key)
		var cur uint64
		if e, ok := s.data[c][id]; ok {
			cur = e.version
		}
		if cur != seen {
			return nil, false
		}
	}

	touched := map[string]bool{}
	var collections []string
	for _, key := range tx.order {
		w := tx.writes[key]
		s.put(w.collection, w.id, w.data)
		if !touched[w.collection] {
			touched[w.collection] = true
			collections = append(collections, w.collection)
		}
	}
	return collections, true
}

// put stores data and bumps the store version. Callers hold s.mu.
func (s *Store) put(collection, id string, data map[string]any) {
	s.version++
	docs, ok := s.data[collection]
	if !ok {
		docs = make(map[string]*entry)
		s.data[collection] = docs
	}
	docs[id] = &entry{data: data, version: s.version}
}

// query returns matching documents. Callers hold s.mu.
func (s *Store) query(collection string, filters []docmap.Filter, order *docmap.Order, limit int) []docmap.Document {
	out := make([]docmap.Document, 0, len(s.data[collection]))
	for id, e := range s.data[collection] {
		d := docmap.Document{ID: id, Data: e.data}
		if docmap.Match(d, filters) {
			out = append(out, docmap.Document{ID: id, Data: clone(e.data)})
		}
	}
	docmap.Sort(out, order)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) notify(collection string) {
	type pending struct {
		sub  *subscription
		docs []docmap.Document
	}

	s.mu.RLock()
	version := s.version
	var batch []pending
	for _, sub := range s.subs {
		if sub.collection != collection {
			continue
		}
		batch = append(batch, pending{sub: sub, docs: s.query(collection, sub.filters, sub.order, 0)})
	}
	s.mu.RUnlock()

	for _, p := range batch {
		p.sub.deliver(version, p.docs)
	}
}

// deliver hands a snapshot to the subscriber. Snapshots older than the last
// delivered one are dropped.
func (sub *subscription) deliver(version uint64, docs []docmap.Document) {
	sub.mu.Lock()
	if sub.closed || (sub.delivered != 0 && version <= sub.delivered) {
		sub.mu.Unlock()
		return
	}
	sub.delivered = version
	sub.mu.Unlock()
	sub.fn(docs)
}

type txWrite struct {
	collection string
	id         string
	data       map[string]any
}

type txn struct {
	store  *Store
	reads  map[string]uint64
	writes map[string]*txWrite
	order  []string
}

var _ ports.Txn = (*txn)(nil)

func (t *txn) Get(collection, id string) (*docmap.Document, error) {
	key := joinKey(collection, id)
	if w, ok := t.writes[key]; ok {
		return &docmap.Document{ID: id, Data: clone(w.data)}, nil
	}

	t.store.mu.RLock()
	e, ok := t.store.data[collection][id]
	var data map[string]any
	var version uint64
	if ok {
		data = clone(e.data)
		version = e.version
	}
	t.store.mu.RUnlock()

	if _, seen := t.reads[key]; !seen {
		t.reads[key] = version
	}
	if !ok {
		return nil, nil
	}
	return &docmap.Document{ID: id, Data: data}, nil
}

func (t *txn) Set(collection, id string, data map[string]any) error {
	norm, err := docmap.Normalize(data)
	if err != nil {
		return err
	}
	t.write(collection, id, norm)
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
	key := joinKey(collection, id)
	if _, ok := t.writes[key]; !ok {
		t.order = append(t.order, key)
	}
	t.writes[key] = &txWrite{collection: collection, id: id, data: data}
}

func joinKey(collection, id string) string {
	return collection + "\x00" + id
}

func splitKey(key string) (string, string) {
	for i := 0; i < len(key); i++ {
		if key[i] == 0 {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

func clone(data map[string]any) map[string]any {
	out, err := docmap.Normalize(data)
	if err != nil {
		return map[string]any{}
	}
	return out
}

func observe(op string, start time.Time) {
	telemetry.StoreOperationLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

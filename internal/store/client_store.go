package store

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/pkg/common"
)

// ClientStore owns client records. It does not check references into the
// property store.
type ClientStore struct {
	mu      sync.Mutex
	backend Backend[domain.Client]
	events  Publisher
	now     func() time.Time
}

func NewClientStore(backend Backend[domain.Client], events Publisher) *ClientStore {
	return &ClientStore{backend: backend, events: publisherOrNop(events), now: time.Now}
}

func (s *ClientStore) Add(ctx context.Context, c domain.Client) (int64, error) {
	c.Normalize()
	if c.Type == "" {
		c.Type = domain.ClientBuyer
	}
	if err := c.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c.ID = common.NextID()
	c.TransactionIDs = nil
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.backend.Insert(ctx, c); err != nil {
		return 0, errors.Wrap(err, "insert client")
	}
	s.events.Publish(TopicClientAdded, c)
	return c.ID, nil
}

func (s *ClientStore) Get(ctx context.Context, id int64) (domain.Client, error) {
	c, err := s.backend.Get(ctx, id)
	if errors.Is(err, ErrNoRecord) {
		return c, &domain.NotFoundError{Kind: "client", ID: id}
	}
	if err != nil {
		return c, errors.Wrapf(err, "get client %d", id)
	}
	return c, nil
}

func (s *ClientStore) Update(ctx context.Context, id int64, fields map[string]interface{}) (domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return domain.Client{}, err
	}
	next := cur
	if err := next.Patch(fields); err != nil {
		return domain.Client{}, err
	}
	next.Normalize()
	if err := next.Validate(); err != nil {
		return domain.Client{}, err
	}
	return next, s.save(ctx, cur, next)
}

func (s *ClientStore) linkTransaction(ctx context.Context, id, txID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	next := cur
	next.TransactionIDs = append(append([]int64(nil), cur.TransactionIDs...), txID)
	return s.save(ctx, cur, next)
}

func (s *ClientStore) save(ctx context.Context, cur, next domain.Client) error {
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.now()
	if err := s.backend.Update(ctx, next); err != nil {
		if errors.Is(err, ErrNoRecord) {
			return &domain.NotFoundError{Kind: "client", ID: cur.ID}
		}
		return errors.Wrapf(err, "update client %d", cur.ID)
	}
	s.events.Publish(TopicClientUpdated, next)
	return nil
}

func (s *ClientStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.Delete(ctx, id)
	if errors.Is(err, ErrNoRecord) {
		return &domain.NotFoundError{Kind: "client", ID: id}
	}
	if err != nil {
		return errors.Wrapf(err, "delete client %d", id)
	}
	s.events.Publish(TopicClientDeleted, id)
	return nil
}

func (s *ClientStore) List(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.backend.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list clients")
	}
	return clients, nil
}

// Search returns a lazy, restartable sequence over matching clients.
func (s *ClientStore) Search(ctx context.Context, q domain.ClientQuery) (iter.Seq[domain.Client], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	clients, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return func(yield func(domain.Client) bool) {
		for _, c := range clients {
			if q.Match(c) && !yield(c) {
				return
			}
		}
	}, nil
}

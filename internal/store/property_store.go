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

// PropertyStore owns property records: validation, id assignment, status
// transitions and change events on top of a Backend.
type PropertyStore struct {
	mu      sync.Mutex
	backend Backend[domain.Property]
	events  Publisher
	now     func() time.Time
}

func NewPropertyStore(backend Backend[domain.Property], events Publisher) *PropertyStore {
	return &PropertyStore{backend: backend, events: publisherOrNop(events), now: time.Now}
}

// Add validates p, assigns an id and stores it. A missing status defaults to
// available and a missing listing date to now.
func (s *PropertyStore) Add(ctx context.Context, p domain.Property) (int64, error) {
	p.Normalize()
	if p.Status == "" {
		p.Status = domain.StatusAvailable
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if p.ListingDate.IsZero() {
		p.ListingDate = now
	}
	p.ID = common.NextID()
	p.AgentID = 0
	p.TransactionIDs = nil
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.backend.Insert(ctx, p); err != nil {
		return 0, errors.Wrap(err, "insert property")
	}
	s.events.Publish(TopicPropertyAdded, p)
	return p.ID, nil
}

// Get returns the property or a NotFoundError.
func (s *PropertyStore) Get(ctx context.Context, id int64) (domain.Property, error) {
	p, err := s.backend.Get(ctx, id)
	if errors.Is(err, ErrNoRecord) {
		return p, &domain.NotFoundError{Kind: "property", ID: id}
	}
	if err != nil {
		return p, errors.Wrapf(err, "get property %d", id)
	}
	return p, nil
}

// Update applies a partial update. A status change must follow the
// available -> pending -> sold order.
func (s *PropertyStore) Update(ctx context.Context, id int64, fields map[string]interface{}) (domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}
	next := cur
	if err := next.Patch(fields); err != nil {
		return domain.Property{}, err
	}
	next.Normalize()
	if next.Status != cur.Status && !cur.Status.CanTransition(next.Status) {
		return domain.Property{}, domain.NewValidationError("status",
			"cannot change from %s to %s", cur.Status, next.Status)
	}
	if err := next.Validate(); err != nil {
		return domain.Property{}, err
	}
	return next, s.save(ctx, cur, next)
}

// SetStatus moves a property along the status machine.
func (s *PropertyStore) SetStatus(ctx context.Context, id int64, status domain.PropertyStatus) (domain.Property, error) {
	return s.Update(ctx, id, map[string]interface{}{"status": string(status)})
}

// Reset returns a property to available from any state.
func (s *PropertyStore) Reset(ctx context.Context, id int64) (domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}
	next := cur
	next.Status = domain.StatusAvailable
	return next, s.save(ctx, cur, next)
}

// linkTransaction records a deal id on the property.
func (s *PropertyStore) linkTransaction(ctx context.Context, id, txID int64) error {
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

// setAgent records the listing agent; 0 clears it.
func (s *PropertyStore) setAgent(ctx context.Context, id, agentID int64) (domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return cur, err
	}
	next := cur
	next.AgentID = agentID
	return next, s.save(ctx, cur, next)
}

func (s *PropertyStore) save(ctx context.Context, cur, next domain.Property) error {
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.now()
	if err := s.backend.Update(ctx, next); err != nil {
		if errors.Is(err, ErrNoRecord) {
			return &domain.NotFoundError{Kind: "property", ID: cur.ID}
		}
		return errors.Wrapf(err, "update property %d", cur.ID)
	}
	s.events.Publish(TopicPropertyUpdated, next)
	if next.Status != cur.Status {
		s.events.Publish(TopicPropertyStatus, next, cur.Status)
	}
	return nil
}

func (s *PropertyStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.backend.Delete(ctx, id)
	if errors.Is(err, ErrNoRecord) {
		return &domain.NotFoundError{Kind: "property", ID: id}
	}
	if err != nil {
		return errors.Wrapf(err, "delete property %d", id)
	}
	s.events.Publish(TopicPropertyDeleted, id)
	return nil
}

// List returns every property in insertion order.
func (s *PropertyStore) List(ctx context.Context) ([]domain.Property, error) {
	props, err := s.backend.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list properties")
	}
	return props, nil
}

// Search returns a lazy sequence over the properties matching q. The
// sequence walks a snapshot taken at call time and can be ranged over any
// number of times.
func (s *PropertyStore) Search(ctx context.Context, q domain.PropertyQuery) (iter.Seq[domain.Property], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return s.Filter(ctx, q.Match)
}

// Filter is Search with an arbitrary predicate.
func (s *PropertyStore) Filter(ctx context.Context, pred func(domain.Property) bool) (iter.Seq[domain.Property], error) {
	props, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return func(yield func(domain.Property) bool) {
		for _, p := range props {
			if pred(p) && !yield(p) {
				return
			}
		}
	}, nil
}

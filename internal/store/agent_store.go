package store

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/pkg/common"
)

// AgentStore owns agent records and keeps Agent.AssignedProperties and
// Property.AgentID in step.
type AgentStore struct {
	mu          sync.Mutex
	backend     Backend[domain.Agent]
	properties  *PropertyStore
	events      Publisher
	defaultRate float64
	now         func() time.Time
}

// NewAgentStore agents added with a zero commission rate get defaultRate.
func NewAgentStore(backend Backend[domain.Agent], properties *PropertyStore, events Publisher, defaultRate float64) *AgentStore {
	return &AgentStore{
		backend:     backend,
		properties:  properties,
		events:      publisherOrNop(events),
		defaultRate: defaultRate,
		now:         time.Now,
	}
}

func (s *AgentStore) Add(ctx context.Context, a domain.Agent) (int64, error) {
	a.Normalize()
	if a.CommissionRate == 0 {
		a.CommissionRate = s.defaultRate
	}
	a.TotalSales = 0
	a.AssignedProperties = nil
	if err := a.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	a.ID = common.NextID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := s.backend.Insert(ctx, a); err != nil {
		return 0, errors.Wrap(err, "insert agent")
	}
	s.events.Publish(TopicAgentAdded, a)
	return a.ID, nil
}

func (s *AgentStore) Get(ctx context.Context, id int64) (domain.Agent, error) {
	a, err := s.backend.Get(ctx, id)
	if errors.Is(err, ErrNoRecord) {
		return a, &domain.NotFoundError{Kind: "agent", ID: id}
	}
	if err != nil {
		return a, errors.Wrapf(err, "get agent %d", id)
	}
	return a, nil
}

func (s *AgentStore) Update(ctx context.Context, id int64, fields map[string]interface{}) (domain.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return domain.Agent{}, err
	}
	next := cur
	if err := next.Patch(fields); err != nil {
		return domain.Agent{}, err
	}
	next.Normalize()
	if err := next.Validate(); err != nil {
		return domain.Agent{}, err
	}
	return next, s.save(ctx, cur, next)
}

// Assign makes agentID the listing agent of propertyID, taking the property
// off its previous agent's list.
func (s *AgentStore) Assign(ctx context.Context, agentID, propertyID int64) (domain.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	agent, err := s.Get(ctx, agentID)
	if err != nil {
		return agent, err
	}
	prop, err := s.properties.Get(ctx, propertyID)
	if err != nil {
		return agent, err
	}
	if prop.AgentID == agentID && agent.Assigned(propertyID) {
		return agent, nil
	}

	if prop.AgentID != 0 && prop.AgentID != agentID {
		prev, err := s.Get(ctx, prop.AgentID)
		switch {
		case domain.IsNotFound(err):
		case err != nil:
			return agent, err
		default:
			next := prev
			next.AssignedProperties = without(prev.AssignedProperties, propertyID)
			if err := s.save(ctx, prev, next); err != nil {
				return agent, err
			}
		}
	}

	next := agent
	if !agent.Assigned(propertyID) {
		next.AssignedProperties = append(append([]int64(nil), agent.AssignedProperties...), propertyID)
	}
	if err := s.save(ctx, agent, next); err != nil {
		return agent, err
	}
	if _, err := s.properties.setAgent(ctx, propertyID, agentID); err != nil {
		return next, errors.Wrapf(err, "set agent of property %d", propertyID)
	}
	s.events.Publish(TopicAgentAssigned, next, propertyID)
	return next, nil
}

// recordSale adds a completed deal amount to the agent's total.
func (s *AgentStore) recordSale(ctx context.Context, id int64, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	next := cur
	next.TotalSales = cur.TotalSales + amount
	return s.save(ctx, cur, next)
}

func (s *AgentStore) save(ctx context.Context, cur, next domain.Agent) error {
	next.ID = cur.ID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = s.now()
	if err := s.backend.Update(ctx, next); err != nil {
		if errors.Is(err, ErrNoRecord) {
			return &domain.NotFoundError{Kind: "agent", ID: cur.ID}
		}
		return errors.Wrapf(err, "update agent %d", cur.ID)
	}
	s.events.Publish(TopicAgentUpdated, next)
	return nil
}

// Delete removes the agent and clears it from the properties it listed.
// Clearing is best effort.
func (s *AgentStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.backend.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNoRecord) {
			return &domain.NotFoundError{Kind: "agent", ID: id}
		}
		return errors.Wrapf(err, "delete agent %d", id)
	}
	for _, pid := range a.AssignedProperties {
		p, err := s.properties.Get(ctx, pid)
		if err != nil || p.AgentID != id {
			continue
		}
		if _, err := s.properties.setAgent(ctx, pid, 0); err != nil {
			zap.L().Warn("clear property agent failed",
				zap.Int64("agent_id", id), zap.Int64("property_id", pid), zap.Error(err))
		}
	}
	s.events.Publish(TopicAgentDeleted, id)
	return nil
}

func (s *AgentStore) List(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.backend.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list agents")
	}
	return agents, nil
}

func without(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

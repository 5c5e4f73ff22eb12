package store

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/pkg/common"
)

// TransactionStore records deals between a client and a property and drives
// the property status along with them. Updates across the stores are not
// atomic; a failed property update rolls the deal back.
type TransactionStore struct {
	mu             sync.Mutex
	backend        Backend[domain.Transaction]
	properties     *PropertyStore
	clients        *ClientStore
	agents         *AgentStore
	events         Publisher
	commissionRate float64
	now            func() time.Time
}

// NewTransactionStore commissionRate applies to deals without an agent.
func NewTransactionStore(
	backend Backend[domain.Transaction],
	properties *PropertyStore,
	clients *ClientStore,
	agents *AgentStore,
	events Publisher,
	commissionRate float64,
) *TransactionStore {
	return &TransactionStore{
		backend:        backend,
		properties:     properties,
		clients:        clients,
		agents:         agents,
		events:         publisherOrNop(events),
		commissionRate: commissionRate,
		now:            time.Now,
	}
}

// Open starts a pending deal. The property must be available; it moves to
// pending. The agent defaults to the property's listing agent and sets the
// commission rate. A zero Date defaults to now.
func (s *TransactionStore) Open(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if tx.Kind == "" {
		tx.Kind = domain.DealSale
	}
	tx.Status = domain.DealPending
	tx.Commission = 0
	if err := tx.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	prop, err := s.properties.Get(ctx, tx.PropertyID)
	if err != nil {
		return domain.Transaction{}, err
	}
	if _, err := s.clients.Get(ctx, tx.ClientID); err != nil {
		return domain.Transaction{}, err
	}
	if prop.Status != domain.StatusAvailable {
		return domain.Transaction{}, domain.NewValidationError("property_id",
			"property %d is %s, not available", prop.ID, prop.Status)
	}

	rate := s.commissionRate
	if tx.AgentID == 0 {
		tx.AgentID = prop.AgentID
	}
	if tx.AgentID != 0 {
		agent, err := s.agents.Get(ctx, tx.AgentID)
		if err != nil {
			return domain.Transaction{}, err
		}
		rate = agent.CommissionRate
	}
	tx.Commission = math.Round(tx.Amount*rate*100) / 100

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if tx.Date.IsZero() {
		tx.Date = now
	}
	tx.ID = common.NextID()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	if err := s.backend.Insert(ctx, tx); err != nil {
		return domain.Transaction{}, errors.Wrap(err, "insert transaction")
	}

	if _, err := s.properties.SetStatus(ctx, tx.PropertyID, domain.StatusPending); err != nil {
		if derr := s.backend.Delete(ctx, tx.ID); derr != nil {
			zap.L().Error("drop transaction after failed open",
				zap.Int64("transaction_id", tx.ID), zap.Error(derr))
		}
		return domain.Transaction{}, errors.Wrapf(err, "mark property %d pending", tx.PropertyID)
	}
	s.link(ctx, tx)
	s.events.Publish(TopicDealOpened, tx)
	return tx, nil
}

// link back-references are best effort; a failure leaves the deal intact.
func (s *TransactionStore) link(ctx context.Context, tx domain.Transaction) {
	if err := s.properties.linkTransaction(ctx, tx.PropertyID, tx.ID); err != nil {
		zap.L().Warn("link transaction to property failed",
			zap.Int64("transaction_id", tx.ID), zap.Int64("property_id", tx.PropertyID), zap.Error(err))
	}
	if err := s.clients.linkTransaction(ctx, tx.ClientID, tx.ID); err != nil {
		zap.L().Warn("link transaction to client failed",
			zap.Int64("transaction_id", tx.ID), zap.Int64("client_id", tx.ClientID), zap.Error(err))
	}
}

// Complete closes a pending deal and marks the property sold. The property
// must be pending with this deal as its latest pending one. On failure the
// deal stays pending.
func (s *TransactionStore) Complete(ctx context.Context, id int64) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.pendingDeal(ctx, id, domain.DealCompleted)
	if err != nil {
		return tx, err
	}
	prop, err := s.properties.Get(ctx, tx.PropertyID)
	if err != nil {
		return tx, err
	}
	holds, err := s.holdsProperty(ctx, tx, prop)
	if err != nil {
		return tx, err
	}
	if !holds {
		return tx, domain.NewValidationError("status",
			"property %d is %s and not held by deal %d", prop.ID, prop.Status, tx.ID)
	}

	closed, err := s.setStatus(ctx, tx, domain.DealCompleted)
	if err != nil {
		return tx, err
	}
	if _, err := s.properties.SetStatus(ctx, prop.ID, domain.StatusSold); err != nil {
		s.rollback(ctx, tx)
		return tx, errors.Wrapf(err, "mark property %d sold", prop.ID)
	}
	if closed.AgentID != 0 {
		if err := s.agents.recordSale(ctx, closed.AgentID, closed.Amount); err != nil {
			zap.L().Warn("record agent sale failed",
				zap.Int64("transaction_id", closed.ID), zap.Int64("agent_id", closed.AgentID), zap.Error(err))
		}
	}
	s.events.Publish(TopicDealCompleted, closed)
	return closed, nil
}

// Cancel closes a pending deal. The property goes back on the market only
// when this deal still holds it; a deal on a deleted property can still be
// cancelled.
func (s *TransactionStore) Cancel(ctx context.Context, id int64) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.pendingDeal(ctx, id, domain.DealCancelled)
	if err != nil {
		return tx, err
	}
	release := false
	prop, err := s.properties.Get(ctx, tx.PropertyID)
	switch {
	case domain.IsNotFound(err):
	case err != nil:
		return tx, err
	default:
		if release, err = s.holdsProperty(ctx, tx, prop); err != nil {
			return tx, err
		}
	}

	closed, err := s.setStatus(ctx, tx, domain.DealCancelled)
	if err != nil {
		return tx, err
	}
	if release {
		if _, err := s.properties.Reset(ctx, prop.ID); err != nil {
			s.rollback(ctx, tx)
			return tx, errors.Wrapf(err, "reset property %d", prop.ID)
		}
	}
	s.events.Publish(TopicDealCancelled, closed)
	return closed, nil
}

func (s *TransactionStore) pendingDeal(ctx context.Context, id int64, next domain.DealStatus) (domain.Transaction, error) {
	tx, err := s.Get(ctx, id)
	if err != nil {
		return tx, err
	}
	if !tx.Status.CanTransition(next) {
		return tx, domain.NewValidationError("status", "cannot change deal from %s to %s", tx.Status, next)
	}
	return tx, nil
}

// holdsProperty reports whether prop is pending and tx is its most recent
// pending deal. Ids are monotonic, so the highest id is the latest.
func (s *TransactionStore) holdsProperty(ctx context.Context, tx domain.Transaction, prop domain.Property) (bool, error) {
	if prop.Status != domain.StatusPending {
		return false, nil
	}
	txs, err := s.backend.List(ctx)
	if err != nil {
		return false, errors.Wrap(err, "list transactions")
	}
	var latest int64
	for _, other := range txs {
		if other.PropertyID == prop.ID && other.Status == domain.DealPending && other.ID > latest {
			latest = other.ID
		}
	}
	return latest == tx.ID, nil
}

func (s *TransactionStore) setStatus(ctx context.Context, tx domain.Transaction, status domain.DealStatus) (domain.Transaction, error) {
	tx.Status = status
	tx.UpdatedAt = s.now()
	if err := s.backend.Update(ctx, tx); err != nil {
		return tx, errors.Wrapf(err, "update transaction %d", tx.ID)
	}
	return tx, nil
}

// rollback restores a deal saved as closed before its property update failed.
func (s *TransactionStore) rollback(ctx context.Context, tx domain.Transaction) {
	if err := s.backend.Update(ctx, tx); err != nil {
		zap.L().Error("roll back transaction failed",
			zap.Int64("transaction_id", tx.ID), zap.String("status", string(tx.Status)), zap.Error(err))
	}
}

func (s *TransactionStore) Get(ctx context.Context, id int64) (domain.Transaction, error) {
	tx, err := s.backend.Get(ctx, id)
	if errors.Is(err, ErrNoRecord) {
		return tx, &domain.NotFoundError{Kind: "transaction", ID: id}
	}
	if err != nil {
		return tx, errors.Wrapf(err, "get transaction %d", id)
	}
	return tx, nil
}

func (s *TransactionStore) List(ctx context.Context) ([]domain.Transaction, error) {
	txs, err := s.backend.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	return txs, nil
}

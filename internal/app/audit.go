package app

import (
	"go.uber.org/zap"

	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/internal/store"
)

// subscribeAudit logs every store mutation under the "audit" logger.
// Handler signatures must match what the stores publish.
func (a *Application) subscribeAudit() {
	log := zap.L().Named("audit")
	subscribe := func(topic string, fn interface{}) {
		if err := a.bus.Subscribe(topic, fn); err != nil {
			zap.L().Error("subscribe audit handler", zap.String("topic", topic), zap.Error(err))
		}
	}

	for _, topic := range []string{store.TopicPropertyAdded, store.TopicPropertyUpdated} {
		topic := topic
		subscribe(topic, func(p domain.Property) {
			log.Info(topic, zap.Int64("id", p.ID), zap.String("address", p.Address), zap.Float64("price", p.Price))
		})
	}
	subscribe(store.TopicPropertyStatus, func(p domain.Property, from domain.PropertyStatus) {
		log.Info(store.TopicPropertyStatus, zap.Int64("id", p.ID),
			zap.String("from", string(from)), zap.String("to", string(p.Status)))
	})

	for _, topic := range []string{store.TopicClientAdded, store.TopicClientUpdated} {
		topic := topic
		subscribe(topic, func(c domain.Client) {
			log.Info(topic, zap.Int64("id", c.ID), zap.String("name", c.FullName()))
		})
	}

	for _, topic := range []string{store.TopicAgentAdded, store.TopicAgentUpdated} {
		topic := topic
		subscribe(topic, func(ag domain.Agent) {
			log.Info(topic, zap.Int64("id", ag.ID), zap.String("name", ag.FullName()),
				zap.Float64("total_sales", ag.TotalSales))
		})
	}
	subscribe(store.TopicAgentAssigned, func(ag domain.Agent, propertyID int64) {
		log.Info(store.TopicAgentAssigned, zap.Int64("id", ag.ID), zap.Int64("property_id", propertyID))
	})

	for _, topic := range []string{store.TopicPropertyDeleted, store.TopicClientDeleted, store.TopicAgentDeleted} {
		topic := topic
		subscribe(topic, func(id int64) {
			log.Info(topic, zap.Int64("id", id))
		})
	}

	for _, topic := range []string{store.TopicDealOpened, store.TopicDealCompleted, store.TopicDealCancelled} {
		topic := topic
		subscribe(topic, func(tx domain.Transaction) {
			log.Info(topic, zap.Int64("id", tx.ID), zap.Int64("property_id", tx.PropertyID),
				zap.Int64("client_id", tx.ClientID), zap.Int64("agent_id", tx.AgentID), zap.Float64("amount", tx.Amount))
		})
	}
}

package store

// Event topics published by the stores. Handlers receive the record after
// the change (or the deleted id for delete topics).
const (
	TopicPropertyAdded   = "property:added"
	TopicPropertyUpdated = "property:updated"
	TopicPropertyDeleted = "property:deleted"
	TopicPropertyStatus  = "property:status"

	TopicClientAdded   = "client:added"
	TopicClientUpdated = "client:updated"
	TopicClientDeleted = "client:deleted"

	TopicAgentAdded    = "agent:added"
	TopicAgentUpdated  = "agent:updated"
	TopicAgentDeleted  = "agent:deleted"
	TopicAgentAssigned = "agent:assigned"

	TopicDealOpened    = "deal:opened"
	TopicDealCompleted = "deal:completed"
	TopicDealCancelled = "deal:cancelled"
)

// Publisher is satisfied by EventBus.Bus.
type Publisher interface {
	Publish(topic string, args ...interface{})
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, ...interface{}) {}

func publisherOrNop(p Publisher) Publisher {
	if p == nil {
		return nopPublisher{}
	}
	return p
}

package event

import "decision-lab/domain"

// Audience tells the fan-out who receives an event.
type Audience int

const (
	// ToCaller is a unicast reply to the connection that sent the command.
	ToCaller Audience = iota
	// ToGroup reaches every connection registered in the room group at delivery time.
	ToGroup
)

type Outgoing struct {
	Audience Audience
	Caller   domain.ConnectionID
	Event    DomainEvent
}

func Unicast(caller domain.ConnectionID, e DomainEvent) Outgoing {
	return Outgoing{Audience: ToCaller, Caller: caller, Event: e}
}

func Broadcast(e DomainEvent) Outgoing {
	return Outgoing{Audience: ToGroup, Event: e}
}

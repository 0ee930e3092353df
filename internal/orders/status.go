package orders

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPreparing Status = "PREPARING"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDelivered Status = "DELIVERED"
	StatusCanceled  Status = "CANCELED"
)

// Orders only move forward through the graph; CANCELED is reachable from any
// non-terminal state. DELIVERED and CANCELED are terminal.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPreparing: true, StatusCanceled: true},
	StatusPreparing: {StatusInTransit: true, StatusCanceled: true},
	StatusInTransit: {StatusDelivered: true, StatusCanceled: true},
	StatusDelivered: {},
	StatusCanceled:  {},
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) Terminal() bool {
	return len(validNext[s]) == 0 && s.Valid()
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

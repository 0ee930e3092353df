package orders

import "strconv"

const (
	TopicOrderCreated  = "order.created"
	TopicStatusChanged = "order.status.changed"
	TopicDishChanged   = "menu.dish.changed"
)

// Partition key = entity id, so all events of one order (or one restaurant's
// menu) stay ordered.
func PartitionKey(id int64) []byte { return []byte(strconv.FormatInt(id, 10)) }

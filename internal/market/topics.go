package market

const TopicOrderStatusChanged = "order.status.changed"

// Partition key = order id so one order's events stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

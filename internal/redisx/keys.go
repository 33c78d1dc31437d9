package redisx

import "time"

const (
	// Cached login profile: session:user:{user_id} -> market.User JSON
	KeySessionUser = "session:user:%s"

	// Seller display name: seller_name:{seller_id} -> name
	KeySellerName = "seller_name:%s"

	// One status update in flight per order: inflight:order_status:{order_id}
	KeyStatusInflight = "inflight:order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSellerName = 10 * time.Minute
	// Upper bound on a stuck lock if a BFF replica dies mid-request.
	TTLStatusInflight = 30 * time.Second
	TTLDedup          = 48 * time.Hour
)

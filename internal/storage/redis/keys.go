package redis

import "fmt"

// Key prefix for all solitaire data
const keyPrefix = "solitaire"

// Account hash fields
const (
	fieldID           = "id"
	fieldUsername     = "username"
	fieldPasswordHash = "password_hash"
	fieldBoundAddress = "bound_address"
	fieldBoundAt      = "bound_at"
	fieldWins         = "wins"
	fieldLosses       = "losses"
	fieldBestTime     = "best_time"
	fieldCreatedAt    = "created_at"
	fieldUpdatedAt    = "updated_at"
)

// accountKey returns the Redis key for an account HASH
func accountKey(username string) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, username)
}

// accountsIndexKey returns the Redis key for the SET of all usernames
func accountsIndexKey() string {
	return fmt.Sprintf("%s:idx:accounts", keyPrefix)
}

// addressIndexKey returns the Redis key for the ZSET of usernames bound to an
// address, scored by bind time
func addressIndexKey(address string) string {
	return fmt.Sprintf("%s:idx:address:%s", keyPrefix, address)
}

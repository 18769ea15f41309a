package redis

import "github.com/redis/go-redis/v9"

// createScript inserts the account hash only if it does not exist yet.
// KEYS[1] account hash, KEYS[2] accounts set; ARGV is the field/value list.
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
redis.call('SADD', KEYS[2], ARGV[4])
return 1
`)

// incrementScript bumps a counter field of an existing account.
// KEYS[1] account hash; ARGV[1] counter field, ARGV[2] updated_at.
// Returns -1 when the account does not exist.
var incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
local n = redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
redis.call('HSET', KEYS[1], 'updated_at', ARGV[2])
return n
`)

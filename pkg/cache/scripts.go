package cache

import (
	"github.com/go-redis/redis/v8"
)

// Lua scripts for Redis operations
var (
	setTrackedScript    *redis.Script
	invalidateSetScript *redis.Script
)

func init() {
	// store a value and record its key in a tracking set.
	setTrackedScript = redis.NewScript(`
		local value_key = KEYS[1]
		local set_key = KEYS[2]
		local expiration = tonumber(ARGV[2])
		redis.call('SET', value_key, ARGV[1])
		if expiration > 0 then
			redis.call('EXPIRE', value_key, expiration)
		end
		redis.call('SADD', set_key, value_key)
		return 1
	`)

	// remove every key recorded in a tracking set, then the set itself.
	invalidateSetScript = redis.NewScript(`
		local set_key = KEYS[1]
		local cache_keys = redis.call('SMEMBERS', set_key)
		if #cache_keys > 0 then
			redis.call('DEL', unpack(cache_keys))
		end
		redis.call('DEL', set_key)
		return #cache_keys
	`)
}

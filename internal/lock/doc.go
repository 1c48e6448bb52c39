// Package lock provides time-boxed mutual exclusion for background jobs
// running on many replicas. A lease is a key holding a random token with
// an expiry; only the holder of the token may refresh or release it.
//
// Stores are pluggable: RedisStore coordinates across processes and
// MemoryStore coordinates goroutines of a single process. The Connection
// type tracks whether a store is configured and reachable, and Manager
// applies the fail-open or fail-closed policy when it is not.
package lock

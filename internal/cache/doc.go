// Package cache provides a process-local result cache with sliding expiration.
//
// Each entry remembers when it was last read. An entry that has not been read
// for longer than the expiry window is treated as absent and dropped on the
// next access, by Purge, or by the optional background janitor.
//
// Concurrent GetOrCompute calls for the same key share one computation via
// singleflight; the registry lock is never held while computing.
package cache

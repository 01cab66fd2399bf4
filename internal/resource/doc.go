// Package resource limits the IO consumed by a database build.
//
// Reads are rate-limited with a token bucket shared by every concurrent
// load. Waits are context-aware so a cancelled build stops promptly:
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 64 << 20, // 64MB/s
//	})
//
//	if err := rc.AcquireIO(ctx, size); err != nil {
//	    return err
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource

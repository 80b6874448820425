// Package ratelimit provides request pacing for the reel downloader.
//
// This package implements two limiters used to avoid overwhelming
// Instagram's servers and getting blocked.
//
// Available Implementations:
//
// Token Bucket:
//   - Fixed capacity bucket that refills after a specified period
//   - Paces profile and pagination API calls
//
// Fixed Interval:
//   - One request per configured interval
//   - Backs the unconditional per-item delay between video downloads;
//     Pause() sleeps the full interval regardless of elapsed time
//
// Interface:
//
// Both limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed
//   - Wait() - Block until a request is allowed
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// Token bucket: 60 requests per minute for API calls
//	limiter := ratelimit.NewTokenBucket(60, time.Minute)
//
//	if !limiter.Allow() {
//	    limiter.Wait()
//	}
//
//	// Fixed interval: 2 seconds between downloads
//	pacer := ratelimit.NewFixedInterval(2 * time.Second)
//	pacer.Pause()
package ratelimit

// Package retry provides exponential backoff retry logic for transient
// failures at the transport boundary.
//
// The decode engine itself never retries: a malformed payload decodes to the
// same error every time. Retry is only meaningful for the stream consumer's
// connection and subscription operations, where errors classified as
// transient by the errors package are worth another attempt.
//
// Basic usage:
//
//	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
//	    return consumer.Connect()
//	})
//
// Errors wrapped with retry.NonRetryable fail immediately without
// consuming further attempts:
//
//	return retry.NonRetryable(err)
//
// Quick() and Persistent() provide presets for startup races and critical
// long-lived resources respectively. All delays support jitter to avoid
// thundering-herd reconnects.
package retry

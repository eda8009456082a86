// Package order models delivery orders: identity, destination, weight, priority,
// the Pending/Allocated/Delivered lifecycle and the timestamps used for
// queue scoring and delivery statistics.
package order

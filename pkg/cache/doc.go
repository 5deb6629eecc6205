// Package cache stores computed routes in Redis, keyed by route id.
//
// The host count decides the client: one host gets a single-node client,
// several hosts get a cluster client. Callers see the same
// Get/Set API either way. Reads never fail; an unreachable server reads as
// a miss.
package cache

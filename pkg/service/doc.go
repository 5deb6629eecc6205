// Package service orchestrates route requests.
//
// FindPath runs one request through the pipeline:
//
//  1. translate the client payload, resolving POI ids
//  2. encode the normalized request for the engine
//  3. compute the route on the engine worker pool
//  4. cache the payload under the route id (optional)
//  5. journal the outcome (optional)
//
// GetValue reads a cached payload back by route id.
package service

// Package types defines the JSON bodies of the route API.
//
// Successful route calls return a RouteResponse:
//
//	{"id": "r-42", "payload": "..."}
//
// Every failure returns an ErrorResponse whose Type selects the HTTP status:
//
//	{"error": {"message": "routing engine find_path failed with status 2", "type": "engine_error", "code": "engine_status"}}
package types

// Naviroute is a navigation-request gateway.
//
// It accepts route requests over HTTP in a protobuf or JSON encoding,
// resolves POI endpoints against a search service, hands the normalized
// request to the native routing engine and caches the result by route id.
// The same binary can instead serve a directory or forward requests to
// another server.
//
// Usage:
//
//	# Start the gateway
//	naviroute run --config /etc/naviroute/config.yaml
//
//	# Load secrets from a dotenv file first
//	naviroute run --config config.yaml --env-file .env
//
//	# Check a configuration file
//	naviroute validate --config config.yaml
//
//	# Export the last day of the route journal as CSV
//	naviroute journal export --format csv --since 24h
//
//	# Show version information
//	naviroute version
package main

func main() {
	Execute()
}

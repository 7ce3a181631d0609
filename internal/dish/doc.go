// Package dish locates a Starlink dish on the local network and acquires
// its reported location.
//
// Resolution is a best-effort ladder (explicit address, environment,
// well-known hostnames, default IP probe) and acquisition is another
// (gRPC get_location, gRPC get_status, HTTP diagnostic page). An unresolved
// or unreachable dish is a normal steady state, never an error: callers get
// "no location this cycle" and try again next poll.
package dish

// Waypoint is a forward HTTP proxy that keeps traffic statistics.
//
// It relays plain HTTP requests from clients to the origin named in each
// request, and answers statistics queries on a loopback admin port:
// packet and body length means and deviations, response counts by MIME
// category and status code, and the most requested hosts.
//
// Usage:
//
//	# Start the proxy with defaults (:8090, admin on 127.0.0.1:8091)
//	waypoint run
//
//	# Start with a configuration file
//	waypoint run --config /etc/waypoint/config.yaml
//
//	# Query the running proxy
//	waypoint stats status count
//	waypoint stats top 10
//
//	# Inspect the session journal
//	waypoint journal recent --limit 20 --format csv
package main

func main() {
	Execute()
}

// Package stats aggregates traffic statistics observed by the proxy.
//
// # Overview
//
// The Aggregator is the single process-wide store of proxy statistics. It is
// written by the relay whenever a client request line or an origin status line
// is recognised, and read by the admin protocol when an operator asks for a
// report. One mutex guards every field; updates happen once per proxied
// request rather than once per byte, so the lock is never hot.
//
// # Series
//
//   - client packet length: header + body length of each parsed client request
//   - server packet length: header + body length of each recognised response
//   - server body length: body length of each recognised response
//
// Each series is a RunningStat, which keeps mean and variance online using
// Welford's update.
//
// # Counters
//
//   - status code -> count
//   - MIME category -> count (see ClassifyContentType)
//   - hostname -> count (unbounded for the life of the process)
//
// # Usage
//
//	agg := stats.NewAggregator()
//	agg.RecordRequest("example.com", chunk)
//	agg.RecordResponse(200, chunk)
//
//	for _, host := range agg.TopHosts(10) {
//		fmt.Println(host)
//	}
package stats

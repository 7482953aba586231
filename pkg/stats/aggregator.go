package stats

import (
	"sort"
	"sync"

	"mercator-hq/waypoint/pkg/httpmsg"
)

// Aggregator is the process-wide statistics store. All methods are safe for
// concurrent use.
type Aggregator struct {
	mu sync.Mutex

	clientPacketLen RunningStat
	serverPacketLen RunningStat
	serverBodyLen   RunningStat

	statusCount map[int]uint64
	typeCount   map[MIMEType]uint64
	hostCount   map[string]uint64
}

// StatusCount is one row of the status code report.
type StatusCount struct {
	Code  int
	Count uint64
}

// TypeCount is one row of the MIME category report.
type TypeCount struct {
	Type  MIMEType
	Count uint64
}

// HostCount is one row of the host popularity report.
type HostCount struct {
	Host  string
	Count uint64
}

// Snapshot is a consistent copy of the aggregator state taken under its lock.
type Snapshot struct {
	ClientPacketLength RunningStat
	ServerPacketLength RunningStat
	ServerBodyLength   RunningStat

	// Statuses is ordered by ascending status code.
	Statuses []StatusCount

	// Types is ordered by category declaration order.
	Types []TypeCount

	// Hosts is ordered by descending request count.
	Hosts []HostCount
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		statusCount: make(map[int]uint64),
		typeCount:   make(map[MIMEType]uint64),
		hostCount:   make(map[string]uint64),
	}
}

// RecordRequest accounts one parsed client request whose raw chunk was chunk.
func (a *Aggregator) RecordRequest(host string, chunk []byte) {
	headerLen, bodyLen := httpmsg.Measure(chunk)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.clientPacketLen.Push(float64(headerLen + bodyLen))
	a.hostCount[host]++
}

// RecordResponse accounts one chunk that began with an HTTP status line.
// A status of zero or less (unparseable code) skips the status counter but
// still updates the type counter and length series.
func (a *Aggregator) RecordResponse(status int, chunk []byte) {
	headerLen, bodyLen := httpmsg.Measure(chunk)
	contentType, hasType := httpmsg.HeaderValue(chunk, "Content-Type")

	a.mu.Lock()
	defer a.mu.Unlock()

	if status > 0 {
		a.statusCount[status]++
	}
	if hasType {
		a.typeCount[ClassifyContentType(contentType)]++
	}
	a.serverPacketLen.Push(float64(headerLen + bodyLen))
	a.serverBodyLen.Push(float64(bodyLen))
}

// TopHosts returns up to k hostnames ordered by descending request count.
// Ties are ordered by hostname.
func (a *Aggregator) TopHosts(k int) []string {
	if k <= 0 {
		return []string{}
	}

	a.mu.Lock()
	hosts := a.sortedHostsLocked()
	a.mu.Unlock()

	if k > len(hosts) {
		k = len(hosts)
	}
	names := make([]string, 0, k)
	for _, h := range hosts[:k] {
		names = append(names, h.Host)
	}
	return names
}

// Snapshot returns a copy of the full aggregator state.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		ClientPacketLength: a.clientPacketLen,
		ServerPacketLength: a.serverPacketLen,
		ServerBodyLength:   a.serverBodyLen,
		Statuses:           make([]StatusCount, 0, len(a.statusCount)),
		Types:              make([]TypeCount, 0, len(a.typeCount)),
		Hosts:              a.sortedHostsLocked(),
	}

	for code, n := range a.statusCount {
		snap.Statuses = append(snap.Statuses, StatusCount{Code: code, Count: n})
	}
	sort.Slice(snap.Statuses, func(i, j int) bool {
		return snap.Statuses[i].Code < snap.Statuses[j].Code
	})

	for _, t := range knownTypes {
		if n, ok := a.typeCount[t]; ok {
			snap.Types = append(snap.Types, TypeCount{Type: t, Count: n})
		}
	}

	return snap
}

func (a *Aggregator) sortedHostsLocked() []HostCount {
	hosts := make([]HostCount, 0, len(a.hostCount))
	for host, n := range a.hostCount {
		hosts = append(hosts, HostCount{Host: host, Count: n})
	}
	sort.Slice(hosts, func(i, j int) bool {
		if hosts[i].Count != hosts[j].Count {
			return hosts[i].Count > hosts[j].Count
		}
		return hosts[i].Host < hosts[j].Host
	})
	return hosts
}

package proxy

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"mercator-hq/waypoint/pkg/config"
	"mercator-hq/waypoint/pkg/telemetry/metrics"
)

var errNoIPv4 = errors.New("no IPv4 address")

// Dialer resolves origin hostnames to their first IPv4 address and connects
// to them. Successful lookups may be memoised; failures never are.
type Dialer struct {
	timeout   time.Duration
	resolver  *net.Resolver
	cache     *cache.Cache
	collector *metrics.Collector
}

// NewDialer creates a Dialer. The resolver cache is only built when
// cfg.CacheEnabled is set.
func NewDialer(cfg config.ResolverConfig, dialTimeout time.Duration, collector *metrics.Collector) *Dialer {
	d := &Dialer{
		timeout:   dialTimeout,
		resolver:  net.DefaultResolver,
		collector: collector,
	}
	if cfg.CacheEnabled {
		d.cache = cache.New(cfg.CacheTTL, cfg.CleanupInterval)
	}
	return d
}

// Resolve returns the first IPv4 address for host.
func (d *Dialer) Resolve(ctx context.Context, host string) (net.IP, error) {
	if d.cache != nil {
		if v, ok := d.cache.Get(host); ok {
			d.collector.RecordResolverCache(true)
			return v.(net.IP), nil
		}
		d.collector.RecordResolverCache(false)
	}

	ips, err := d.resolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, &ResolveError{Host: host, Err: err}
	}

	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			if d.cache != nil {
				d.cache.SetDefault(host, v4)
			}
			return v4, nil
		}
	}
	return nil, &ResolveError{Host: host, Err: errNoIPv4}
}

// Dial resolves host and connects to it on port within the dial timeout.
// When the caller's ctx ends first, its error is returned unwrapped rather
// than as a ResolveError or DialError.
func (d *Dialer) Dial(ctx context.Context, host string, port uint16) (net.Conn, error) {
	parent := ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	ip, err := d.Resolve(ctx, host)
	if err != nil {
		if ctxErr := parent.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	addr := net.JoinHostPort(ip.String(), strconv.Itoa(int(port)))
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp4", addr)
	if err != nil {
		if ctxErr := parent.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &DialError{Address: addr, Err: err}
	}
	return conn, nil
}

// CachedHosts returns the number of memoised lookups.
func (d *Dialer) CachedHosts() int {
	if d.cache == nil {
		return 0
	}
	return d.cache.ItemCount()
}

package timesource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beevik/ntp"
	"github.com/rs/zerolog/log"
)

const (
	DefaultServer = "pool.ntp.org"

	queryTimeout  = 2 * time.Second
	syncInterval  = 15 * time.Minute
	retryInterval = 10 * time.Second
)

// Querier performs one NTP exchange.
type Querier func(host string, opt ntp.QueryOptions) (*ntp.Response, error)

// NTP keeps the offset between the host clock and an NTP server. Now applies
// that offset; it fails with ErrNotSynced until the first sync succeeds.
type NTP struct {
	Server  string
	Loc     *time.Location
	Timeout time.Duration

	query Querier
	clock func() time.Time

	mu       sync.RWMutex
	offset   time.Duration
	synced   bool
	lastSync time.Time
	lastErr  error
}

func NewNTP(server string, loc *time.Location) *NTP {
	if server == "" {
		server = DefaultServer
	}
	if loc == nil {
		loc = time.UTC
	}
	return &NTP{
		Server:  server,
		Loc:     loc,
		Timeout: queryTimeout,
		query:   ntp.QueryWithOptions,
		clock:   time.Now,
	}
}

// SetServer switches the server; the current offset stays until the next
// sync replaces it.
func (n *NTP) SetServer(server string) {
	n.mu.Lock()
	n.Server = server
	n.mu.Unlock()
}

func (n *NTP) SetLocation(loc *time.Location) {
	n.mu.Lock()
	n.Loc = loc
	n.mu.Unlock()
}

// Sync queries the server once.
func (n *NTP) Sync() error {
	n.mu.RLock()
	server := n.Server
	n.mu.RUnlock()

	resp, err := n.query(server, ntp.QueryOptions{Timeout: n.Timeout})
	if err == nil {
		err = resp.Validate()
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		n.lastErr = fmt.Errorf("ntp %s: %w", server, err)
		return n.lastErr
	}
	n.offset = resp.ClockOffset
	n.synced = true
	n.lastSync = n.clock()
	n.lastErr = nil
	return nil
}

// Run syncs until ctx is done, retrying sooner while unsynced.
func (n *NTP) Run(ctx context.Context) {
	for {
		wait := syncInterval
		if err := n.Sync(); err != nil {
			log.Warn().Err(err).Msg("ntp sync failed")
			wait = retryInterval
		} else {
			log.Debug().Dur("offset", n.Offset()).Msg("ntp synced")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (n *NTP) Now(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	if !n.synced {
		if n.lastErr != nil {
			return time.Time{}, fmt.Errorf("%w: %v", ErrNotSynced, n.lastErr)
		}
		return time.Time{}, ErrNotSynced
	}
	return n.clock().Add(n.offset).In(n.Loc), nil
}

func (n *NTP) Offset() time.Duration {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.offset
}

// Synced reports whether a sync has ever succeeded and when the last one did.
func (n *NTP) Synced() (bool, time.Time) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.synced, n.lastSync
}

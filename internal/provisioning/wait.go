package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imamik/slicectl/internal/slice"
	"github.com/imamik/slicectl/internal/util/retry"
)

const (
	// DefaultPollInterval is used when WaitReady is given a non-positive interval.
	DefaultPollInterval = 10 * time.Second
	// DefaultSSHPort is assumed when the backend reports no port.
	DefaultSSHPort = 22
	// DefaultSSHUser is assumed when the backend reports no login user.
	DefaultSSHUser = "root"
)

// ErrResourceFailed is the cause recorded when a node or network reports an error.
var ErrResourceFailed = errors.New("resource failed")

// WaitReady blocks until the slice is READY or FAILED, polling the backend
// every pollInterval. A positive timeout bounds the wait; when it or a
// caller deadline expires the slice is FAILED with TimeoutExceeded.
// Cancelling ctx returns ctx.Err() and leaves the slice CREATING.
//
// Transient BackendUnavailable polls are retried with capped exponential
// backoff up to the retry policy's MaxRetries consecutive failures.
func (o *Orchestrator) WaitReady(ctx context.Context, pollInterval, timeout time.Duration) (*slice.Slice, error) {
	cur := o.current.Load()
	switch cur.State {
	case slice.StateReady:
		return cur, nil
	case slice.StateFailed:
		return cur, cur.Cause
	case slice.StateCreating:
	default:
		return cur, slice.InvalidState("wait ready", cur.State)
	}

	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := o.now()
	s, err := o.poll(ctx, waitCtx, pollInterval)
	if s.State.Terminal() {
		o.metrics.recordWait(s.State, o.now().Sub(start).Seconds())
	}
	return s, err
}

func (o *Orchestrator) poll(ctx, waitCtx context.Context, interval time.Duration) (*slice.Slice, error) {
	h := o.Handle()
	name := h.Name
	backoff := retry.NewBackoff(o.policy)
	failures := 0
	lastActive := -1

	for {
		st, err := o.client.GetState(waitCtx, h)
		if err != nil {
			if waitCtx.Err() != nil {
				return o.stopped(ctx, waitCtx)
			}
			if !slice.IsUnavailable(err) {
				o.metrics.recordPoll(pollError)
				return o.fail(fmt.Errorf("get state of slice %q: %w", name, err))
			}

			o.metrics.recordPoll(pollTransient)
			failures++
			if failures > o.policy.MaxRetries {
				return o.fail(fmt.Errorf("get state of slice %q: giving up after %d consecutive failures: %w", name, failures, err))
			}
			delay := backoff.Next()
			emitPollRetry(o.observer, name, failures, delay, err)
			if retry.Sleep(waitCtx, delay) != nil {
				return o.stopped(ctx, waitCtx)
			}
			continue
		}

		o.metrics.recordPoll(pollOK)
		failures = 0
		backoff.Reset()

		snap := o.current.Load()
		a := assess(snap.NodeNames(), networkNames(snap), st)
		switch a.state {
		case slice.StateReady:
			return o.advance(st, true, nil)
		case slice.StateFailed:
			return o.advance(st, false, fmt.Errorf("slice %q: %w", name, a.cause))
		}

		if s, err := o.advance(st, false, nil); err != nil {
			return s, err
		}
		if a.active != lastActive {
			emitProgress(o.observer, name, a.active, a.total)
			lastActive = a.active
		}
		if retry.Sleep(waitCtx, interval) != nil {
			return o.stopped(ctx, waitCtx)
		}
	}
}

// stopped handles waitCtx ending. Cancellation by the caller leaves the
// slice CREATING; any deadline counts as a timeout.
func (o *Orchestrator) stopped(ctx, waitCtx context.Context) (*slice.Slice, error) {
	if errors.Is(ctx.Err(), context.Canceled) {
		return o.current.Load(), ctx.Err()
	}
	return o.fail(slice.Timeout("wait ready", waitCtx.Err()))
}

// fail moves a CREATING slice to FAILED.
func (o *Orchestrator) fail(cause error) (*slice.Slice, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	cur := o.current.Load()
	if cur.State != slice.StateCreating {
		return cur, slice.InvalidState("wait ready", cur.State)
	}
	return o.failLocked(cause), cause
}

// advance merges a backend report into the snapshot. With ready set the
// slice becomes READY and connection info is materialized; with a non-nil
// cause it becomes FAILED. Otherwise it stays CREATING.
func (o *Orchestrator) advance(st *slice.BackendState, ready bool, cause error) (*slice.Slice, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	cur := o.current.Load()
	if cur.State != slice.StateCreating {
		return cur, slice.InvalidState("wait ready", cur.State)
	}

	next := cur.Clone()
	keys := make(map[string]string, len(o.spec.Nodes))
	for _, n := range o.spec.Nodes {
		if len(n.SSHKeys) > 0 {
			keys[n.Name] = n.SSHKeys[0]
		}
	}
	next.Nodes = mergeNodes(next.Nodes, st.Nodes, keys, ready)
	next.Networks = mergeNetworks(next.Networks, st.Networks)
	if next.Lease == nil && st.Lease != nil {
		l := *st.Lease
		next.Lease = &l
	}

	switch {
	case cause != nil:
		for _, n := range next.Nodes {
			if n.State == slice.ResourceError {
				o.observer.Event(Event{Type: EventResourceFailed, Slice: next.Name, Resource: n.Name, Message: n.Message})
			}
		}
		for _, n := range next.Networks {
			if n.State == slice.ResourceError {
				o.observer.Event(Event{Type: EventResourceFailed, Slice: next.Name, Resource: n.Name, Message: "network failed"})
			}
		}
		next.State = slice.StateFailed
		next.Cause = cause
		o.publish(next)
		return next, cause
	case ready:
		next.State = slice.StateReady
	}
	o.publish(next)
	return next, nil
}

type assessment struct {
	state  slice.State
	cause  error
	active int
	total  int
}

// assess derives the slice state from one backend report. Every declared
// node and network must be active, and every node must have an address,
// before the slice counts as ready. Resources the backend has not reported
// yet count as pending.
func assess(nodes, networks []string, st *slice.BackendState) assessment {
	a := assessment{state: slice.StateCreating, total: len(nodes) + len(networks)}

	reportedNodes := make(map[string]slice.NodeInfo, len(st.Nodes))
	for _, n := range st.Nodes {
		reportedNodes[n.Name] = n
	}
	reportedNets := make(map[string]slice.NetworkInfo, len(st.Networks))
	for _, n := range st.Networks {
		reportedNets[n.Name] = n
	}

	for _, name := range nodes {
		n, ok := reportedNodes[name]
		if !ok {
			continue
		}
		switch n.State {
		case slice.ResourceError:
			msg := n.Message
			if msg == "" {
				msg = "reported error"
			}
			a.state = slice.StateFailed
			a.cause = fmt.Errorf("node %q: %w: %s", name, ErrResourceFailed, msg)
			return a
		case slice.ResourceActive:
			if n.Address != "" {
				a.active++
			}
		}
	}
	for _, name := range networks {
		n, ok := reportedNets[name]
		if !ok {
			continue
		}
		switch n.State {
		case slice.ResourceError:
			a.state = slice.StateFailed
			a.cause = fmt.Errorf("network %q: %w", name, ErrResourceFailed)
			return a
		case slice.ResourceActive:
			a.active++
		}
	}

	if a.active == a.total {
		a.state = slice.StateReady
	}
	return a
}

func networkNames(s *slice.Slice) []string {
	names := make([]string, len(s.Networks))
	for i, n := range s.Networks {
		names[i] = n.Name
	}
	return names
}

// mergeNodes overlays reported node data on the declared nodes. keys maps
// node names to the key reference used for their connection info.
func mergeNodes(declared, reported []slice.NodeInfo, keys map[string]string, connect bool) []slice.NodeInfo {
	byName := make(map[string]slice.NodeInfo, len(reported))
	for _, n := range reported {
		byName[n.Name] = n
	}
	out := make([]slice.NodeInfo, len(declared))
	for i, d := range declared {
		if r, ok := byName[d.Name]; ok {
			d.ID = r.ID
			d.State = r.State
			d.Message = r.Message
			d.Address = r.Address
			d.Port = r.Port
			d.User = r.User
			if r.Site != "" {
				d.Site = r.Site
			}
			if r.Image != "" {
				d.Image = r.Image
			}
			if r.Flavor != "" {
				d.Flavor = r.Flavor
			}
		}
		if connect {
			d.Connection = connectionFor(d, keys[d.Name])
		}
		out[i] = d
	}
	return out
}

func mergeNetworks(declared, reported []slice.NetworkInfo) []slice.NetworkInfo {
	byName := make(map[string]slice.NetworkInfo, len(reported))
	for _, n := range reported {
		byName[n.Name] = n
	}
	out := make([]slice.NetworkInfo, len(declared))
	for i, d := range declared {
		if r, ok := byName[d.Name]; ok {
			d.ID = r.ID
			d.State = r.State
			d.Subnet = r.Subnet
		}
		out[i] = d
	}
	return out
}

func connectionFor(n slice.NodeInfo, keyRef string) *slice.ConnectionInfo {
	if n.Address == "" {
		return nil
	}
	c := &slice.ConnectionInfo{
		Host:   n.Address,
		Port:   n.Port,
		User:   n.User,
		KeyRef: keyRef,
	}
	if c.Port == 0 {
		c.Port = DefaultSSHPort
	}
	if c.User == "" {
		c.User = DefaultSSHUser
	}
	return c
}

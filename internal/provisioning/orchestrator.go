package provisioning

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"

	"github.com/imamik/slicectl/internal/slice"
	"github.com/imamik/slicectl/internal/util/retry"
)

// Submission results recorded by Metrics.
const (
	submitOK      = "ok"
	submitInvalid = "invalid"
	submitError   = "error"
)

// Orchestrator drives one slice through its lifecycle. It exclusively owns
// the slice's mutable state; everyone else reads immutable snapshots.
type Orchestrator struct {
	client   Client
	logger   logr.Logger
	observer Observer
	metrics  *Metrics
	policy   retry.Policy
	now      func() time.Time

	// mu serializes transitions. Reads go through current without locking.
	mu      sync.Mutex
	spec    slice.ResourceSpec
	handle  slice.Handle
	current atomic.Pointer[slice.Slice]
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l logr.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithObserver sets the event observer. The default logs events through the logger.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) {
		o.observer = obs
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithRetryPolicy sets how transient poll failures are retried.
// MaxRetries bounds consecutive failures; the delays back off exponentially.
func WithRetryPolicy(p retry.Policy) Option {
	return func(o *Orchestrator) {
		o.policy = p
	}
}

// WithClock overrides time.Now when measuring how long WaitReady took.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// DefaultRetryPolicy is used for transient poll failures unless overridden.
func DefaultRetryPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries:   5,
		InitialDelay: 2 * time.Second,
		MaxDelay:     time.Minute,
		Multiplier:   2,
	}
}

// NewOrchestrator returns an orchestrator for spec in state PENDING. The
// spec is copied; later changes by the caller have no effect.
func NewOrchestrator(client Client, spec slice.ResourceSpec, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: client,
		logger: logr.Discard(),
		policy: DefaultRetryPolicy(),
		spec:   spec.Normalize(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.observer == nil {
		o.observer = NewLogObserver(o.logger)
	}
	o.current.Store(pendingSnapshot(&o.spec))
	return o
}

func pendingSnapshot(spec *slice.ResourceSpec) *slice.Slice {
	s := &slice.Slice{
		Name:  spec.Name,
		State: slice.StatePending,
		Nodes: make([]slice.NodeInfo, len(spec.Nodes)),
	}
	for i, n := range spec.Nodes {
		s.Nodes[i] = slice.NodeInfo{
			Name:    n.Name,
			Site:    n.Site,
			Image:   n.Image,
			Flavor:  n.Flavor,
			State:   slice.ResourcePending,
			SSHKeys: n.SSHKeys,
		}
	}
	s.Networks = make([]slice.NetworkInfo, len(spec.Networks))
	for i, n := range spec.Networks {
		s.Networks[i] = slice.NetworkInfo{
			Name:       n.Name,
			Type:       n.Type,
			State:      slice.ResourcePending,
			Interfaces: n.Interfaces,
		}
	}
	if spec.Lease != nil {
		l := *spec.Lease
		s.Lease = &l
	}
	return s.Clone()
}

// Snapshot returns the current immutable view of the slice.
func (o *Orchestrator) Snapshot() *slice.Slice {
	return o.current.Load()
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() slice.State {
	return o.current.Load().State
}

// Handle returns the backend handle; zero before a successful Submit.
func (o *Orchestrator) Handle() slice.Handle {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.handle
}

// publish swaps in next and records the transition. Callers hold mu.
func (o *Orchestrator) publish(next *slice.Slice) {
	prev := o.current.Swap(next)
	if prev.State != next.State {
		o.metrics.recordTransition(prev.State, next.State)
		emitTransition(o.observer, next.Name, prev.State, next.State, next.Cause)
	}
}

// failLocked moves the slice to FAILED with cause. Callers hold mu.
func (o *Orchestrator) failLocked(cause error) *slice.Slice {
	next := o.current.Load().Clone()
	next.State = slice.StateFailed
	next.Cause = cause
	o.publish(next)
	return next
}

// AttachKey adds an SSH key reference to a node before submission.
// Attaching a reference the node already has is a no-op.
func (o *Orchestrator) AttachKey(node, ref string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	cur := o.current.Load()
	if cur.State != slice.StatePending {
		return slice.InvalidState("attach key", cur.State)
	}
	if strings.TrimSpace(ref) == "" {
		return slice.Validation("attach key", "empty ssh key reference")
	}
	n, ok := o.spec.Node(node)
	if !ok {
		return slice.Validation("attach key", fmt.Sprintf("node %q is not declared", node))
	}
	if !n.AddKey(ref) {
		return nil
	}

	o.publish(pendingSnapshot(&o.spec))
	o.observer.Event(Event{
		Type:     EventKeyAttached,
		Slice:    o.spec.Name,
		Resource: node,
		Message:  "ssh key attached",
		Fields:   map[string]string{"key": ref},
	})
	return nil
}

// Submit validates the spec locally and hands it to the backend. Validation
// failures never reach the backend. On any failure the slice is FAILED.
func (o *Orchestrator) Submit(ctx context.Context) (slice.Handle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	cur := o.current.Load()
	if cur.State != slice.StatePending {
		return slice.Handle{}, slice.InvalidState("submit", cur.State)
	}

	if err := o.spec.Validate(); err != nil {
		o.metrics.recordSubmission(submitInvalid)
		o.failLocked(err)
		return slice.Handle{}, err
	}

	spec := o.spec.Normalize()
	o.logger.V(1).Info("submitting slice", "slice", spec.Name, "nodes", len(spec.Nodes), "networks", len(spec.Networks))

	h, err := o.client.Submit(ctx, spec)
	if err != nil {
		err = fmt.Errorf("submit slice %q: %w", spec.Name, err)
		o.metrics.recordSubmission(submitError)
		o.failLocked(err)
		return slice.Handle{}, err
	}

	o.metrics.recordSubmission(submitOK)
	o.handle = h
	next := cur.Clone()
	next.ID = h.ID
	next.State = slice.StateCreating
	o.publish(next)
	o.observer.Event(Event{
		Type:    EventSubmitted,
		Slice:   spec.Name,
		Message: "slice submitted",
		Fields:  map[string]string{"id": h.ID},
	})
	return h, nil
}

// Teardown releases the slice. It is idempotent: tearing down a CLOSED slice
// succeeds. A PENDING slice is closed without contacting the backend. If the
// backend fails, the state is unchanged and the call can be retried.
func (o *Orchestrator) Teardown(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	cur := o.current.Load()
	switch cur.State {
	case slice.StateClosed:
		return nil
	case slice.StatePending:
	default:
		if !o.handle.IsZero() {
			if err := o.client.Teardown(ctx, o.handle); err != nil {
				return fmt.Errorf("teardown slice %q: %w", cur.Name, err)
			}
		}
	}

	next := cur.Clone()
	next.State = slice.StateClosed
	for i := range next.Nodes {
		next.Nodes[i].Connection = nil
	}
	o.publish(next)
	return nil
}

package simulated

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/imamik/slicectl/internal/config"
	"github.com/imamik/slicectl/internal/slice"
)

// Call names counted by Calls.
const (
	CallSubmit       = "Submit"
	CallGetState     = "GetState"
	CallGetSlice     = "GetSlice"
	CallListNodes    = "ListNodes"
	CallListNetworks = "ListNetworks"
	CallTeardown     = "Teardown"
)

// DefaultReadyAfter is the number of pending polls before a slice is active.
const DefaultReadyAfter = 2

const (
	addressPrefix = "198.51.100."
	firstHost     = 10
	lastHost      = 254
	defaultFlavor = "default"
)

type record struct {
	id        string
	spec      slice.ResourceSpec
	submitted time.Time
	polls     int
	addresses map[string]string
	failed    map[string]string
}

// Backend is an in-memory provisioning backend. It is safe for concurrent use.
type Backend struct {
	readyAfter int
	latency    time.Duration
	logger     logr.Logger
	now        func() time.Time

	mu         sync.Mutex
	slices     map[string]*record // by id
	names      map[string]string  // name -> id
	nextHost   int
	failCalls  int
	submitErr  error
	pendingErr map[string]map[string]string // slice name -> node -> message
	calls      map[string]int
}

// Option configures a Backend.
type Option func(*Backend)

// WithReadyAfter sets how many polls report resources as pending.
func WithReadyAfter(polls int) Option {
	return func(b *Backend) {
		b.readyAfter = polls
	}
}

// WithLatency sets the minimum time between submission and readiness.
func WithLatency(d time.Duration) Option {
	return func(b *Backend) {
		b.latency = d
	}
}

// WithLogger sets the logger.
func WithLogger(l logr.Logger) Option {
	return func(b *Backend) {
		b.logger = l
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// New returns an empty backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		readyAfter: DefaultReadyAfter,
		logger:     logr.Discard(),
		now:        time.Now,
		slices:     make(map[string]*record),
		names:      make(map[string]string),
		nextHost:   firstHost,
		pendingErr: make(map[string]map[string]string),
		calls:      make(map[string]int),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FailNode makes node of the named slice report an error. It may be called
// before or after the slice is submitted.
func (b *Backend) FailNode(sliceName, node, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if id, ok := b.names[sliceName]; ok {
		b.slices[id].failed[node] = msg
		return
	}
	if b.pendingErr[sliceName] == nil {
		b.pendingErr[sliceName] = make(map[string]string)
	}
	b.pendingErr[sliceName][node] = msg
}

// FailNextCalls makes the next n calls of any kind fail with BackendUnavailable.
func (b *Backend) FailNextCalls(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failCalls = n
}

// FailSubmit makes the next Submit return err.
func (b *Backend) FailSubmit(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitErr = err
}

// Calls returns how often the named operation was invoked.
func (b *Backend) Calls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

// enter counts the call and applies injected unavailability. Callers hold mu.
func (b *Backend) enter(ctx context.Context, op string) error {
	b.calls[op]++
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.failCalls > 0 {
		b.failCalls--
		return slice.Unavailable(strings.ToLower(op), errors.New("simulated backend unavailable"))
	}
	return nil
}

// Submit implements provisioning.Client.
func (b *Backend) Submit(ctx context.Context, spec slice.ResourceSpec) (slice.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.enter(ctx, CallSubmit); err != nil {
		return slice.Handle{}, err
	}
	if err := b.submitErr; err != nil {
		b.submitErr = nil
		return slice.Handle{}, err
	}
	if err := spec.Validate(); err != nil {
		return slice.Handle{}, err
	}
	if _, exists := b.names[spec.Name]; exists {
		return slice.Handle{}, slice.Validation("submit", fmt.Sprintf("slice %q already exists", spec.Name))
	}
	if b.nextHost+len(spec.Nodes)-1 > lastHost {
		return slice.Handle{}, slice.Validation("submit", "simulated address pool exhausted")
	}

	rec := &record{
		id:        uuid.NewString(),
		spec:      spec.Normalize(),
		submitted: b.now(),
		addresses: make(map[string]string, len(spec.Nodes)),
		failed:    make(map[string]string),
	}
	if rec.spec.Lease == nil {
		rec.spec.Lease = slice.LeaseFor(rec.submitted, config.DefaultLeaseDays)
	}
	for _, n := range rec.spec.Nodes {
		rec.addresses[n.Name] = fmt.Sprintf("%s%d", addressPrefix, b.nextHost)
		b.nextHost++
	}
	for node, msg := range b.pendingErr[spec.Name] {
		rec.failed[node] = msg
	}
	delete(b.pendingErr, spec.Name)

	b.slices[rec.id] = rec
	b.names[spec.Name] = rec.id
	b.logger.V(1).Info("slice submitted", "slice", spec.Name, "id", rec.id, "nodes", len(spec.Nodes))
	return slice.Handle{ID: rec.id, Name: spec.Name}, nil
}

// GetState implements provisioning.Client. Every call counts as one poll.
func (b *Backend) GetState(ctx context.Context, h slice.Handle) (*slice.BackendState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.enter(ctx, CallGetState); err != nil {
		return nil, err
	}
	rec, ok := b.slices[h.ID]
	if !ok {
		return nil, slice.NotFound("get state", "slice", h.Name)
	}
	rec.polls++

	st := &slice.BackendState{
		Nodes:    b.nodesOf(rec),
		Networks: b.networksOf(rec),
	}
	if rec.spec.Lease != nil {
		l := *rec.spec.Lease
		st.Lease = &l
	}
	return st, nil
}

// GetSlice implements provisioning.Client.
func (b *Backend) GetSlice(ctx context.Context, name string) (slice.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.enter(ctx, CallGetSlice); err != nil {
		return slice.Handle{}, err
	}
	id, ok := b.names[name]
	if !ok {
		return slice.Handle{}, slice.NotFound("get slice", "slice", name)
	}
	return slice.Handle{ID: id, Name: name}, nil
}

// ListNodes implements provisioning.Client.
func (b *Backend) ListNodes(ctx context.Context, h slice.Handle) ([]slice.NodeInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.enter(ctx, CallListNodes); err != nil {
		return nil, err
	}
	rec, ok := b.slices[h.ID]
	if !ok {
		return nil, slice.NotFound("list nodes", "slice", h.Name)
	}
	return b.nodesOf(rec), nil
}

// ListNetworks implements provisioning.Client.
func (b *Backend) ListNetworks(ctx context.Context, h slice.Handle) ([]slice.NetworkInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.enter(ctx, CallListNetworks); err != nil {
		return nil, err
	}
	rec, ok := b.slices[h.ID]
	if !ok {
		return nil, slice.NotFound("list networks", "slice", h.Name)
	}
	return b.networksOf(rec), nil
}

// Teardown implements provisioning.Client. Unknown slices are ignored.
func (b *Backend) Teardown(ctx context.Context, h slice.Handle) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.enter(ctx, CallTeardown); err != nil {
		return err
	}
	rec, ok := b.slices[h.ID]
	if !ok {
		return nil
	}
	delete(b.slices, rec.id)
	delete(b.names, rec.spec.Name)
	b.logger.V(1).Info("slice torn down", "slice", rec.spec.Name, "id", rec.id)
	return nil
}

// active reports whether rec has passed its readiness latency. Callers hold mu.
func (b *Backend) active(rec *record) bool {
	return rec.polls > b.readyAfter && b.now().Sub(rec.submitted) >= b.latency
}

func (b *Backend) nodesOf(rec *record) []slice.NodeInfo {
	ready := b.active(rec)
	out := make([]slice.NodeInfo, 0, len(rec.spec.Nodes))
	for i, n := range rec.spec.Nodes {
		info := slice.NodeInfo{
			Name:    n.Name,
			ID:      fmt.Sprintf("%s-%d", rec.id[:8], i),
			Site:    n.Site,
			Image:   n.Image,
			Flavor:  n.Flavor,
			State:   slice.ResourcePending,
			User:    userFor(n.Image),
			SSHKeys: append([]string(nil), n.SSHKeys...),
		}
		if info.Flavor == "" {
			info.Flavor = defaultFlavor
		}
		switch msg, failed := rec.failed[n.Name]; {
		case failed:
			info.State = slice.ResourceError
			info.Message = msg
		case ready:
			info.State = slice.ResourceActive
			info.Address = rec.addresses[n.Name]
			info.Port = 22
		}
		out = append(out, info)
	}
	return out
}

func (b *Backend) networksOf(rec *record) []slice.NetworkInfo {
	ready := b.active(rec)
	out := make([]slice.NetworkInfo, 0, len(rec.spec.Networks))
	for i, n := range rec.spec.Networks {
		info := slice.NetworkInfo{
			Name:       n.Name,
			ID:         fmt.Sprintf("%s-net-%d", rec.id[:8], i),
			Type:       n.Type,
			State:      slice.ResourcePending,
			Interfaces: append([]string(nil), n.Interfaces...),
		}
		if ready {
			info.State = slice.ResourceActive
			info.Subnet = subnetFor(n.Type, i)
		}
		out = append(out, info)
	}
	return out
}

func subnetFor(t slice.NetworkType, idx int) string {
	if t == slice.NetworkL3Public {
		return addressPrefix + "0/24"
	}
	return fmt.Sprintf("10.%d.0.0/16", idx+1)
}

// userFor returns the default login user of the image family.
func userFor(image string) string {
	image = strings.ToLower(image)
	for _, family := range []string{"ubuntu", "rocky", "centos", "debian", "fedora"} {
		if strings.Contains(image, family) {
			return family
		}
	}
	return "root"
}

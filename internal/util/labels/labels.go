package labels

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Label keys. All keys share the slicectl.io prefix.
const (
	KeySlice     = "slicectl.io/slice"
	KeySliceID   = "slicectl.io/slice-id"
	KeyNode      = "slicectl.io/node"
	KeyNetwork   = "slicectl.io/network"
	KeyNetType   = "slicectl.io/network-type"
	KeyImage     = "slicectl.io/image"
	KeySite      = "slicectl.io/site"
	KeyLeaseFrom = "slicectl.io/lease-start"
	KeyLeaseTo   = "slicectl.io/lease-end"
	KeyManagedBy = "slicectl.io/managed-by"

	// KeyPublicNetPrefix marks a server as bound to a public network; the
	// network name follows the prefix.
	KeyPublicNetPrefix = "public.slicectl.io/"

	ManagedBySlicectl = "slicectl"
)

// LabelBuilder provides a fluent interface for building resource labels.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder starts a label set for the given slice.
func NewLabelBuilder(sliceName, sliceID string) *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeySlice:     sliceName,
			KeySliceID:   sliceID,
			KeyManagedBy: ManagedBySlicectl,
		},
	}
}

// WithNode sets the node name.
func (lb *LabelBuilder) WithNode(node string) *LabelBuilder {
	lb.labels[KeyNode] = node
	return lb
}

// WithNetwork sets the network name and type.
func (lb *LabelBuilder) WithNetwork(name, netType string) *LabelBuilder {
	lb.labels[KeyNetwork] = name
	lb.labels[KeyNetType] = netType
	return lb
}

// WithPublicNetwork marks the resource as bound to the named public network.
func (lb *LabelBuilder) WithPublicNetwork(name string) *LabelBuilder {
	lb.labels[KeyPublicNetPrefix+name] = "true"
	return lb
}

// WithSite records the requested site, which can differ from the location
// name the backend reports.
func (lb *LabelBuilder) WithSite(site string) *LabelBuilder {
	lb.labels[KeySite] = site
	return lb
}

// WithImage records the requested image name. Label values cannot contain
// every character image names use, so unsupported ones are replaced.
func (lb *LabelBuilder) WithImage(image string) *LabelBuilder {
	lb.labels[KeyImage] = sanitizeValue(image)
	return lb
}

// WithLease stores the lease window as unix seconds. Zero times are skipped.
func (lb *LabelBuilder) WithLease(start, end time.Time) *LabelBuilder {
	if !start.IsZero() {
		lb.labels[KeyLeaseFrom] = strconv.FormatInt(start.Unix(), 10)
	}
	if !end.IsZero() {
		lb.labels[KeyLeaseTo] = strconv.FormatInt(end.Unix(), 10)
	}
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// LeaseFrom parses the lease labels back into times. ok is false when the
// labels are missing or malformed.
func LeaseFrom(l map[string]string) (start, end time.Time, ok bool) {
	s, err1 := strconv.ParseInt(l[KeyLeaseFrom], 10, 64)
	e, err2 := strconv.ParseInt(l[KeyLeaseTo], 10, 64)
	if err1 != nil || err2 != nil {
		return time.Time{}, time.Time{}, false
	}
	return time.Unix(s, 0).UTC(), time.Unix(e, 0).UTC(), true
}

// PublicNetworks returns the public network names recorded on l, sorted.
func PublicNetworks(l map[string]string) []string {
	var names []string
	for k := range l {
		if name, ok := strings.CutPrefix(k, KeyPublicNetPrefix); ok && name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// SelectorForSlice selects every resource of a slice by name.
func SelectorForSlice(sliceName string) string {
	return KeySlice + "=" + sliceName
}

// SelectorForSliceID selects every resource of one realization of a slice.
func SelectorForSliceID(id string) string {
	return KeySliceID + "=" + id
}

// Selector renders labels as a comma separated selector with sorted keys.
func Selector(l map[string]string) string {
	keys := make([]string, 0, len(l))
	for k := range l {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + l[k]
	}
	return strings.Join(parts, ",")
}

func sanitizeValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := b.String()
	if len(s) > 63 {
		s = s[:63]
	}
	return strings.Trim(s, "-_.")
}

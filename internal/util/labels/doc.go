// Package labels builds the label sets that tie backend resources to a slice.
//
// A backend without a native slice object (such as Hetzner Cloud) finds all
// resources of a slice by label selector, so every server and network must
// carry the same slice name and slice id labels.
package labels

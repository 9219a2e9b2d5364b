// Package manifest regenerates the central unit ConfigMap from a topology
// ConfigMap.
//
// The topology ConfigMap carries a JSON array of clusters under
// "clusters.json". Each cluster becomes a compute node entry: the word
// "cluster" in its name is replaced by "computenode" and the placement and
// energy attributes are copied unchanged. The result is written under
// "config.json" of a ConfigMap whose metadata is taken from a template.
package manifest

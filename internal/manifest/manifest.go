package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/imamik/slicectl/internal/slice"
)

const (
	// DefaultName and DefaultNamespace are used when the template leaves
	// them empty.
	DefaultName      = "centralunit-config"
	DefaultNamespace = "eu-central"

	// ClustersKey holds the topology in the input ConfigMap.
	ClustersKey = "clusters.json"
	// ConfigKey holds the compute nodes in the generated ConfigMap.
	ConfigKey = "config.json"
)

// requiredFields lists the cluster attributes copied into every node entry.
var requiredFields = []string{
	"name", "region", "location", "cpu_capacity",
	"energy_bias", "carbon_intensity", "latitude", "longitude",
}

// ComputeNode is one entry of config.json. Attribute values are kept as
// raw JSON so numbers are written back exactly as they were read.
type ComputeNode struct {
	Name            string          `json:"name"`
	Region          json.RawMessage `json:"region"`
	Location        json.RawMessage `json:"location"`
	CPUCapacity     json.RawMessage `json:"cpu_capacity"`
	EnergyBias      json.RawMessage `json:"energy_bias"`
	CarbonIntensity json.RawMessage `json:"carbon_intensity"`
	Latitude        json.RawMessage `json:"latitude"`
	Longitude       json.RawMessage `json:"longitude"`
}

// ParseClusters decodes a clusters.json array into compute nodes.
func ParseClusters(raw []byte) ([]ComputeNode, error) {
	var clusters []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &clusters); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ClustersKey, err)
	}

	var problems []string
	nodes := make([]ComputeNode, 0, len(clusters))
	for i, c := range clusters {
		var missing []string
		for _, f := range requiredFields {
			if _, ok := c[f]; !ok {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("cluster %d: missing %s", i, strings.Join(missing, ", ")))
			continue
		}

		var name string
		if err := json.Unmarshal(c["name"], &name); err != nil {
			problems = append(problems, fmt.Sprintf("cluster %d: name must be a string", i))
			continue
		}
		nodes = append(nodes, ComputeNode{
			Name:            strings.ReplaceAll(name, "cluster", "computenode"),
			Region:          c["region"],
			Location:        c["location"],
			CPUCapacity:     c["cpu_capacity"],
			EnergyBias:      c["energy_bias"],
			CarbonIntensity: c["carbon_intensity"],
			Latitude:        c["latitude"],
			Longitude:       c["longitude"],
		})
	}
	if len(problems) > 0 {
		return nil, slice.Validation("manifest", problems...)
	}
	return nodes, nil
}

// Generate builds the central unit ConfigMap. Only the name, namespace,
// labels and annotations of template are used; a nil template yields the
// default metadata.
func Generate(template, topology *corev1.ConfigMap) (*corev1.ConfigMap, error) {
	if topology == nil {
		return nil, slice.Validation("manifest", "topology ConfigMap is required")
	}
	raw, ok := topology.Data[ClustersKey]
	if !ok {
		return nil, slice.Validation("manifest", fmt.Sprintf("ConfigMap %q has no %s", topology.Name, ClustersKey))
	}

	nodes, err := ParseClusters([]byte(raw))
	if err != nil {
		return nil, err
	}
	config, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", ConfigKey, err)
	}

	meta := metav1.ObjectMeta{Name: DefaultName, Namespace: DefaultNamespace}
	if template != nil {
		if template.Name != "" {
			meta.Name = template.Name
		}
		if template.Namespace != "" {
			meta.Namespace = template.Namespace
		}
		meta.Labels = template.Labels
		meta.Annotations = template.Annotations
	}

	return &corev1.ConfigMap{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "ConfigMap"},
		ObjectMeta: meta,
		Data:       map[string]string{ConfigKey: string(config)},
	}, nil
}

// Decode parses a ConfigMap from YAML or JSON.
func Decode(data []byte) (*corev1.ConfigMap, error) {
	var cm corev1.ConfigMap
	if err := sigsyaml.Unmarshal(data, &cm); err != nil {
		return nil, fmt.Errorf("failed to decode ConfigMap: %w", err)
	}
	if cm.Kind != "" && cm.Kind != "ConfigMap" {
		return nil, slice.Validation("manifest", fmt.Sprintf("expected kind ConfigMap, got %q", cm.Kind))
	}
	return &cm, nil
}

// Encode renders a ConfigMap as YAML.
func Encode(cm *corev1.ConfigMap) ([]byte, error) {
	out, err := sigsyaml.Marshal(cm)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ConfigMap: %w", err)
	}
	return out, nil
}

// Regenerate reads the template and topology files and writes the generated
// ConfigMap to outputPath. An empty templatePath uses the default metadata.
func Regenerate(templatePath, clustersPath, outputPath string) (*corev1.ConfigMap, error) {
	var template *corev1.ConfigMap
	if templatePath != "" {
		cm, err := readConfigMap(templatePath)
		if err != nil {
			return nil, err
		}
		template = cm
	}

	topology, err := readConfigMap(clustersPath)
	if err != nil {
		return nil, err
	}

	cm, err := Generate(template, topology)
	if err != nil {
		return nil, err
	}
	out, err := Encode(cm)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(outputPath, out, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return cm, nil
}

func readConfigMap(path string) (*corev1.ConfigMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cm, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cm, nil
}

// Package graphio reads graph documents and writes partition documents.
//
// A graph document lists node ids and weighted edges:
//
//	{"nodes": [1, 2, "c"], "edges": [{"source": 1, "target": "c", "weight": 2.5}]}
//
// Node ids may be JSON/YAML numbers or strings; both are normalized to their
// textual form, so 7 and "7" name the same node.
package graphio

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
	"github.com/dd0wney/cluso-communities/pkg/validation"
)

// NodeID is a node identifier in its textual form
type NodeID string

// UnmarshalJSON accepts a JSON string or number
func (id *NodeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NodeID(s)
		return nil
	}

	var n json.Number
	if bytes.Equal(data, []byte("null")) || json.Unmarshal(data, &n) != nil {
		return fmt.Errorf("node id must be a string or number, got %s", data)
	}
	*id = NodeID(n.String())
	return nil
}

// UnmarshalYAML accepts a YAML string or number scalar. A null id is never
// passed here and decodes as empty, which validation rejects.
func (id *NodeID) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: node id must be a scalar", value.Line)
	}
	switch value.ShortTag() {
	case "!!str", "!!int", "!!float":
		*id = NodeID(value.Value)
		return nil
	default:
		return fmt.Errorf("line %d: node id must be a string or number, got %s", value.Line, value.ShortTag())
	}
}

// EdgeDocument is one edge of a graph document. A missing weight means the
// default weight.
type EdgeDocument struct {
	Source NodeID   `json:"source" yaml:"source"`
	Target NodeID   `json:"target" yaml:"target"`
	Weight *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Document is a decoded graph document
type Document struct {
	Nodes []NodeID       `json:"nodes" yaml:"nodes"`
	Edges []EdgeDocument `json:"edges" yaml:"edges"`
}

// Request converts d into its validation form
func (d *Document) Request() *validation.GraphRequest {
	req := &validation.GraphRequest{
		Nodes: make([]string, len(d.Nodes)),
		Edges: make([]validation.EdgeRequest, len(d.Edges)),
	}
	for i, n := range d.Nodes {
		req.Nodes[i] = string(n)
	}
	for i, e := range d.Edges {
		req.Edges[i] = validation.EdgeRequest{
			Source: string(e.Source),
			Target: string(e.Target),
			Weight: e.Weight,
		}
	}
	return req
}

// Build validates d and constructs its graph. Validation failures wrap
// algorithms.ErrInvalidInput.
func (d *Document) Build() (*algorithms.Graph[string], error) {
	req := d.Request()
	if err := validation.ValidateGraphRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", algorithms.ErrInvalidInput, err)
	}

	edges := make([]algorithms.Edge[string], len(req.Edges))
	for i, e := range req.Edges {
		edges[i] = algorithms.Edge[string]{Source: e.Source, Target: e.Target}
		if e.Weight != nil {
			edges[i].Weight = *e.Weight
		}
	}
	return algorithms.NewGraph(req.Nodes, edges)
}

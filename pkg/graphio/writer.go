package graphio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
)

// CommunityDocument describes one community in a partition document
type CommunityDocument struct {
	ID         int      `json:"id" yaml:"id"`
	Size       int      `json:"size" yaml:"size"`
	Density    float64  `json:"density" yaml:"density"`
	Clustering float64  `json:"clustering" yaml:"clustering"`
	Scale      float64  `json:"scale" yaml:"scale"`
	Nodes      []string `json:"nodes" yaml:"nodes"`
}

// ResultDocument is the partition document written after detection
type ResultDocument struct {
	RunID       string              `json:"run_id" yaml:"run_id"`
	Seed        int64               `json:"seed" yaml:"seed"`
	Quality     float64             `json:"quality" yaml:"quality"`
	Modularity  float64             `json:"modularity" yaml:"modularity"`
	Levels      int                 `json:"levels" yaml:"levels"`
	Components  int                 `json:"components" yaml:"components"`
	Degenerate  bool                `json:"degenerate,omitempty" yaml:"degenerate,omitempty"`
	Assignment  map[string]int      `json:"assignment" yaml:"assignment"`
	Communities []CommunityDocument `json:"communities" yaml:"communities"`
}

// NewResultDocument converts a detection result
func NewResultDocument(r *algorithms.CommunityDetectionResult[string]) *ResultDocument {
	doc := &ResultDocument{
		RunID:       r.RunID,
		Seed:        r.Seed,
		Quality:     r.Quality,
		Modularity:  r.Modularity,
		Levels:      r.Levels,
		Components:  r.Components,
		Degenerate:  r.Degenerate,
		Assignment:  make(map[string]int, len(r.NodeCommunity)),
		Communities: make([]CommunityDocument, 0, len(r.Communities)),
	}
	for n, c := range r.NodeCommunity {
		doc.Assignment[n] = c
	}
	for _, c := range r.Communities {
		doc.Communities = append(doc.Communities, CommunityDocument{
			ID:         c.ID,
			Size:       c.Size,
			Density:    c.Density,
			Clustering: c.Clustering,
			Scale:      c.Scale,
			Nodes:      c.Nodes,
		})
	}
	return doc
}

// Encode writes doc to w
func Encode(w io.Writer, doc *ResultDocument, format Format, indent bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		if indent {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFile encodes doc to path, snappy-compressing it when path ends in
// CompressedExt
func WriteFile(path string, doc *ResultDocument, format Format, indent bool) error {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, format, indent); err != nil {
		return err
	}

	data := buf.Bytes()
	if strings.EqualFold(filepath.Ext(path), CompressedExt) {
		data = snappy.Encode(nil, data)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

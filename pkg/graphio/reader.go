package graphio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"

	// CompressedExt marks snappy-compressed documents
	CompressedExt = ".sz"
)

// ErrEmptyDocument is returned for a document without any content
var ErrEmptyDocument = errors.New("empty graph document")

// Info describes a document read from disk
type Info struct {
	Path       string
	Format     Format
	Compressed bool
	Bytes      int64 // decoded size, after decompression
}

// sniffBytes is how much of an uncompressed document is read for format
// detection
const sniffBytes = 512

// ReadFile memory-maps path and decodes it in the format implied by its
// extension, falling back to content sniffing. Uncompressed documents are
// decoded straight from the mapping; a path ending in CompressedExt is
// snappy-decompressed first.
func ReadFile(path string) (*Document, *Info, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer reader.Close()

	info := &Info{Path: path, Bytes: int64(reader.Len())}
	name := path
	var src io.Reader
	var head []byte

	if strings.EqualFold(filepath.Ext(name), CompressedExt) {
		compressed := make([]byte, reader.Len())
		if _, err := reader.ReadAt(compressed, 0); err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		data, err := snappy.Decode(nil, compressed)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
		info.Compressed = true
		info.Bytes = int64(len(data))
		name = strings.TrimSuffix(name, filepath.Ext(name))
		src, head = bytes.NewReader(data), data
	} else {
		head = make([]byte, min(reader.Len(), sniffBytes))
		if _, err := reader.ReadAt(head, 0); err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		src = io.NewSectionReader(reader, 0, int64(reader.Len()))
	}
	info.Format = DetectFormat(name, head)

	doc, err := DecodeReader(src, info.Format)
	if err != nil {
		return nil, info, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return doc, info, nil
}

// DetectFormat picks the format from the file extension, or from the first
// non-blank byte when the extension is not recognized.
func DetectFormat(name string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatYAML
}

// Decode parses a graph document. Unknown fields are rejected.
func Decode(data []byte, format Format) (*Document, error) {
	return DecodeReader(bytes.NewReader(data), format)
}

// DecodeReader parses a graph document from r. A document that holds only
// whitespace yields ErrEmptyDocument.
func DecodeReader(r io.Reader, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		err = dec.Decode(&doc)
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDocument
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

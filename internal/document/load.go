package document

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads and decodes a reasoning document from disk.
func Load(filePath string) (*Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filePath, err)
	}
	return &doc, nil
}

// Save encodes the document to disk, optionally indented for human readers.
func Save(filePath string, doc *Document, indent bool) error {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(doc, "", "    ")
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filePath, err)
	}
	return os.WriteFile(filePath, data, 0o644)
}

// SaveGraph encodes a merged visualization graph to disk.
func SaveGraph(filePath string, graph *MergedGraph, indent bool) error {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(graph, "", "    ")
	} else {
		data, err = json.Marshal(graph)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filePath, err)
	}
	return os.WriteFile(filePath, data, 0o644)
}

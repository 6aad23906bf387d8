package document

import (
	"os"

	"gopkg.in/yaml.v3"

	"netc/internal/source"
)

// Source is a design file read and parsed into a YAML tree. It is not bound
// to a FileID yet, so sources can be read concurrently and registered later in
// a fixed order.
type Source struct {
	Path    string
	Content []byte
	Flags   source.FileFlags
	Root    *yaml.Node
	// Err holds the YAML syntax error, if any.
	Err error
}

// Read loads path, normalizes BOM/CRLF and parses the YAML tree.
// Only I/O failures are returned as errors; syntax errors stay in Source.Err.
func Read(path string) (*Source, error) {
	// #nosec G304 -- path comes from the import resolver
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	content, flags := source.Normalize(content)
	return FromBytes(path, content, flags), nil
}

// FromBytes parses already normalized content.
func FromBytes(path string, content []byte, flags source.FileFlags) *Source {
	src := &Source{Path: path, Content: content, Flags: flags}
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		src.Err = err
		return src
	}
	src.Root = &root
	return src
}

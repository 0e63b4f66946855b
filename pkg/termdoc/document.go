package termdoc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vic/gosk/pkg/lambda"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat accepts yaml, yml and json.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", errors.Errorf("unknown document format %q", name)
	}
}

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Entry is one named term of a document. Expect, when set, is the
// rendering its normal form must have.
type Entry struct {
	Name   string `json:"name" yaml:"name"`
	Term   Node   `json:"term" yaml:"term"`
	Expect string `json:"expect,omitempty" yaml:"expect,omitempty"`
}

// Document is a batch of terms.
type Document struct {
	Terms []Entry `json:"terms" yaml:"terms"`
}

// Decode resolves the entry term against reg.
func (e Entry) Decode(reg *lambda.Registry) (lambda.Term, error) {
	return decodeAt(e.Term, reg, e.Name)
}

// DecodeAll decodes every entry, reporting all failures together.
func (d *Document) DecodeAll(reg *lambda.Registry) ([]lambda.Term, error) {
	var errs *multierror.Error
	terms := make([]lambda.Term, len(d.Terms))
	for i, e := range d.Terms {
		t, err := e.Decode(reg)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		terms[i] = t
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return terms, nil
}

// Parse decodes a document. Entries without a name are named by index.
func Parse(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil {
			return nil, errors.Wrap(err, "decoding yaml document")
		}
	case FormatJSON:
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, errors.Wrap(err, "decoding json document")
		}
	default:
		return nil, errors.Errorf("unknown document format %q", format)
	}
	for i := range doc.Terms {
		if doc.Terms[i].Name == "" {
			doc.Terms[i].Name = fmt.Sprintf("term%d", i)
		}
	}
	return doc, nil
}

// Marshal encodes a document.
func Marshal(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, errors.Wrap(err, "encoding yaml document")
		}
		if err := enc.Close(); err != nil {
			return nil, errors.Wrap(err, "encoding yaml document")
		}
		return buf.Bytes(), nil
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "encoding json document")
		}
		return append(data, '\n'), nil
	default:
		return nil, errors.Errorf("unknown document format %q", format)
	}
}

// Load reads a document, choosing the format by extension.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return doc, nil
}

// Save writes a document, choosing the format by extension.
func Save(path string, doc *Document) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(doc, format)
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "writing %s", path)
}

// MarshalNode encodes a single node as compact JSON.
func MarshalNode(n Node) ([]byte, error) {
	return json.Marshal(n)
}

// UnmarshalNode decodes a node produced by MarshalNode.
func UnmarshalNode(data []byte) (Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return Node{}, errors.Wrap(err, "decoding node")
	}
	return n, nil
}

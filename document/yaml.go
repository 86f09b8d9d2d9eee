package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLReader decodes a multi-document YAML stream using yaml.Node to keep
// member order and detect duplicate keys (with positions).
type YAMLReader struct {
	dec *yaml.Decoder
}

// NewYAMLReader constructs a YAMLReader.
func NewYAMLReader(r io.Reader) *YAMLReader {
	return &YAMLReader{dec: yaml.NewDecoder(r)}
}

// Next returns the next YAML document converted into a document value.
// It returns (nil, io.EOF) when the stream is exhausted. Duplicate keys cause an error.
func (s *YAMLReader) Next() (any, error) {
	var root yaml.Node
	if err := s.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	return fromYAMLNode(root.Content[0], "#")
}

// ReadAll reads all documents from the YAML stream.
func (s *YAMLReader) ReadAll() ([]any, error) {
	var out []any
	for {
		v, err := s.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

// DecodeYAML decodes the first document of a YAML stream.
func DecodeYAML(data []byte) (any, error) {
	v, err := NewYAMLReader(bytes.NewReader(data)).Next()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("document: empty YAML input")
	}
	return v, err
}

// Decode sniffs the input: JSON when it starts with '{' or '[', YAML otherwise.
func Decode(data []byte) (any, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return DecodeJSON(trimmed)
	}
	return DecodeYAML(data)
}

func fromYAMLNode(n *yaml.Node, path string) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAMLNode(n.Content[0], path)
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias, path)
	case yaml.MappingNode:
		o := NewObject()
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			v := n.Content[i+1]
			key := k.Value
			child := path + "/" + escape(key)
			if pos, dup := first[key]; dup {
				return nil, &DuplicateKeyError{Key: key, Path: child, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[key] = [2]int{k.Line, k.Column}
			val, err := fromYAMLNode(v, child)
			if err != nil {
				return nil, err
			}
			o.Set(key, val)
		}
		return o, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for i, c := range n.Content {
			v, err := fromYAMLNode(c, path+"/"+strconv.Itoa(i))
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return nil, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, fmt.Errorf("document: %s: %w", path, err)
			}
			return b, nil
		case "!!int":
			if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
				return Number(strconv.FormatInt(i, 10)), nil
			}
			return Number(n.Value), nil
		case "!!float":
			if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
				return Number(strconv.FormatFloat(f, 'g', -1, 64)), nil
			}
			return n.Value, nil
		default:
			return n.Value, nil
		}
	default:
		return nil, nil
	}
}

// MarshalYAML emits the Object as an ordered mapping node.
func (o *Object) MarshalYAML() (any, error) {
	return toYAMLNode(o)
}

func toYAMLNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, vv := range t.All() {
			child, err := toYAMLNode(vv)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, child)
		}
		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, vv := range t {
			child, err := toYAMLNode(vv)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case Number:
		tag := "!!int"
		if _, err := strconv.ParseInt(string(t), 10, 64); err != nil {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(t)}, nil
	default:
		n := &yaml.Node{}
		if err := n.Encode(t); err != nil {
			return nil, err
		}
		return n, nil
	}
}

package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	j "github.com/goccy/go-json"
)

// DuplicateKeyError reports a duplicate member name in a mapping. Line and
// column are set for YAML input; JSON input reports the document path only.
type DuplicateKeyError struct {
	Key       string
	Path      string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("duplicate key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
	}
	return fmt.Sprintf("duplicate key %q at %s", e.Key, e.Path)
}

type jsonDecoder struct {
	dec *j.Decoder
}

// DecodeJSON decodes a single JSON value, preserving member order and
// rejecting duplicate keys.
func DecodeJSON(data []byte) (any, error) {
	return DecodeJSONReader(bytes.NewReader(data))
}

// DecodeJSONReader is DecodeJSON over an io.Reader.
func DecodeJSONReader(r io.Reader) (any, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	d := &jsonDecoder{dec: dec}
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("document: empty JSON input")
		}
		return nil, fmt.Errorf("document: invalid JSON: %w", err)
	}
	v, err := d.value(tok, "#")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("document: trailing data after JSON value")
	}
	return v, nil
}

func (d *jsonDecoder) next() (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("document: invalid JSON: %w", err)
	}
	return tok, nil
}

func (d *jsonDecoder) value(tok any, path string) (any, error) {
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			return d.object(path)
		case '[':
			return d.array(path)
		}
		return nil, fmt.Errorf("document: unexpected delimiter %q at %s", rune(v), path)
	case string, bool, nil:
		return v, nil
	case j.Number:
		return v, nil
	case float64:
		return Number(strconv.FormatFloat(v, 'g', -1, 64)), nil
	}
	return nil, fmt.Errorf("document: unexpected token %T at %s", tok, path)
}

func (d *jsonDecoder) object(path string) (*Object, error) {
	o := NewObject()
	for {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(j.Delim); ok && delim == '}' {
			return o, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("document: expected object key at %s, got %T", path, tok)
		}
		child := path + "/" + escape(key)
		if o.Has(key) {
			return nil, &DuplicateKeyError{Key: key, Path: child}
		}
		tok, err = d.next()
		if err != nil {
			return nil, err
		}
		v, err := d.value(tok, child)
		if err != nil {
			return nil, err
		}
		o.Set(key, v)
	}
}

func (d *jsonDecoder) array(path string) ([]any, error) {
	arr := []any{}
	for i := 0; ; i++ {
		tok, err := d.next()
		if err != nil {
			return nil, err
		}
		if delim, ok := tok.(j.Delim); ok && delim == ']' {
			return arr, nil
		}
		v, err := d.value(tok, path+"/"+strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

// MarshalJSON encodes the Object with members in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	i := 0
	for k, v := range o.All() {
		if i > 0 {
			b.WriteByte(',')
		}
		i++
		kb, err := j.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, err := j.Marshal(v)
		if err != nil {
			return nil, err
		}
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

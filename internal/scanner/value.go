package scanner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ValueKind discrimina os nós de um documento chave/valor.
type ValueKind int

const (
	ValueScalar ValueKind = iota // número, booleano ou null
	ValueString
	ValueSequence
	ValueMapping
)

// Value é um nó de documento estruturado. Mapeamentos preservam a ordem do documento.
type Value struct {
	Kind    ValueKind
	Str     string
	Items   []Value
	Entries []Entry
}

type Entry struct {
	Key   string
	Value Value
}

// Visit percorre v em profundidade e chama fn para cada string escalar com
// seu caminho de chave (a.b, a[0]).
func Visit(v Value, path string, fn func(path, s string)) {
	switch v.Kind {
	case ValueString:
		fn(path, v.Str)
	case ValueSequence:
		for i, item := range v.Items {
			Visit(item, path+"["+strconv.Itoa(i)+"]", fn)
		}
	case ValueMapping:
		for _, e := range v.Entries {
			Visit(e.Value, joinKey(path, e.Key), fn)
		}
	}
}

func joinKey(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// ParseJSON decodifica um documento JSON preservando a ordem das chaves.
func ParseJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec, 0)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.New("conteúdo extra após o documento JSON")
	}
	return v, nil
}

// maxDepth limita o aninhamento de documentos JSON e YAML.
const maxDepth = 256

var errTooDeep = errors.New("documento aninhado demais")

func decodeJSONValue(dec *json.Decoder, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, errTooDeep
	}
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			// chave repetida fica com o último valor, na posição da primeira
			var entries []Entry
			index := map[string]int{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("chave JSON inválida: %v", keyTok)
				}
				child, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				if i, dup := index[key]; dup {
					entries[i].Value = child
					continue
				}
				index[key] = len(entries)
				entries = append(entries, Entry{Key: key, Value: child})
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{Kind: ValueMapping, Entries: entries}, nil
		case '[':
			var items []Value
			for dec.More() {
				child, err := decodeJSONValue(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				items = append(items, child)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Value{Kind: ValueSequence, Items: items}, nil
		default:
			return Value{}, fmt.Errorf("delimitador JSON inesperado: %v", t)
		}
	case string:
		return Value{Kind: ValueString, Str: t}, nil
	default:
		return Value{Kind: ValueScalar}, nil
	}
}

// ParseYAML decodifica um documento YAML com yaml.v3, preservando a ordem.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, err
	}
	if doc.Kind == 0 {
		return Value{Kind: ValueScalar}, nil
	}
	return fromYAMLNode(&doc, 0)
}

func fromYAMLNode(n *yaml.Node, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, errTooDeep
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Value{Kind: ValueScalar}, nil
		}
		return fromYAMLNode(n.Content[0], depth+1)
	case yaml.AliasNode:
		if n.Alias == nil {
			return Value{Kind: ValueScalar}, nil
		}
		return fromYAMLNode(n.Alias, depth+1)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromYAMLNode(c, depth+1)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{Kind: ValueSequence, Items: items}, nil
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromYAMLNode(n.Content[i+1], depth+1)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry{Key: n.Content[i].Value, Value: v})
		}
		return Value{Kind: ValueMapping, Entries: entries}, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!str" {
			return Value{Kind: ValueString, Str: n.Value}, nil
		}
		return Value{Kind: ValueScalar}, nil
	default:
		return Value{Kind: ValueScalar}, nil
	}
}

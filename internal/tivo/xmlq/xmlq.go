// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package xmlq builds a small element tree from an XML document and answers
// slash-separated path queries against it.
//
// Every lookup follows one tolerant contract: a missing element, a missing
// attribute or an element without character data is reported as absent
// (ok == false), never as an error. Paths match local names only, so
// namespace prefixes such as "TvBusMarshalledStruct:" do not need to be
// spelled out.
package xmlq

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// maxDocumentSize bounds a single document read from the device.
const maxDocumentSize = 32 * 1024 * 1024

// Node is one element of a parsed document.
type Node struct {
	Name     string
	Space    string
	Attrs    []xml.Attr
	Children []*Node
	text     string
}

// Parse decodes data into an element tree and returns the root element.
func Parse(data []byte) (*Node, error) {
	dec := xml.NewDecoder(io.LimitReader(bytes.NewReader(data), maxDocumentSize))
	dec.Strict = true
	dec.Entity = make(map[string]string)
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root  *Node
		stack []*Node
		texts []*strings.Builder
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmlq: decode: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local, Space: t.Name.Space, Attrs: t.Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("xmlq: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
			texts = append(texts, &strings.Builder{})
		case xml.EndElement:
			last := len(stack) - 1
			stack[last].text = strings.TrimSpace(texts[last].String())
			stack = stack[:last]
			texts = texts[:last]
		case xml.CharData:
			if len(texts) > 0 {
				texts[len(texts)-1].Write(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("xmlq: empty document")
	}
	return root, nil
}

// Child returns the first direct child named name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find walks path from n, taking the first matching child at every step.
// An empty path returns n itself.
func (n *Node) Find(path string) *Node {
	cur := n
	for _, step := range split(path) {
		cur = cur.Child(step)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindAll resolves every step but the last like Find, then returns all
// children of that element matching the last step, in document order.
func (n *Node) FindAll(path string) []*Node {
	steps := split(path)
	if len(steps) == 0 {
		return nil
	}
	parent := n.Find(strings.Join(steps[:len(steps)-1], "/"))
	if parent == nil {
		return nil
	}
	last := steps[len(steps)-1]
	var out []*Node
	for _, c := range parent.Children {
		if c.Name == last {
			out = append(out, c)
		}
	}
	return out
}

// Text returns the trimmed character data of the element at path.
func (n *Node) Text(path string) (string, bool) {
	el := n.Find(path)
	if el == nil || el.text == "" {
		return "", false
	}
	return el.text, true
}

// TextOr is Text with a fallback for absent values.
func (n *Node) TextOr(path, fallback string) string {
	if s, ok := n.Text(path); ok {
		return s
	}
	return fallback
}

// Attr returns the value of attribute name on the element at path.
func (n *Node) Attr(path, name string) (string, bool) {
	el := n.Find(path)
	if el == nil {
		return "", false
	}
	for _, a := range el.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Texts returns the character data of every child element of the element
// at path. The result is empty, never nil, when the element is missing.
func (n *Node) Texts(path string) []string {
	out := []string{}
	el := n.Find(path)
	if el == nil {
		return out
	}
	for _, c := range el.Children {
		if c.text != "" {
			out = append(out, c.text)
		}
	}
	return out
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

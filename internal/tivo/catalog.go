// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package tivo

import (
	"fmt"

	"github.com/ManuGH/tivoctl/internal/tivo/xmlq"
)

// ParseContainer decodes a Now Playing catalog document.
//
// The catalog must describe its full item range: when
// ItemCount-ItemStart != TotalItems a *SchemaViolationError is returned and
// no Container is produced. Items failing their own mandatory fields are
// collected in Container.Rejected and do not affect their siblings.
func ParseContainer(data []byte) (*Container, error) {
	root, err := xmlq.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Container{
		Title:          root.TextOr("Details/Title", ""),
		LastChangeDate: optHexEpoch(root, "Details/LastChangeDate"),
		TotalItems:     intOrZero(root, "Details/TotalItems"),
		ItemStart:      intOrZero(root, "ItemStart"),
		ItemCount:      intOrZero(root, "ItemCount"),
	}
	if c.ItemCount-c.ItemStart != c.TotalItems {
		return nil, &SchemaViolationError{
			TotalItems: c.TotalItems,
			ItemStart:  c.ItemStart,
			ItemCount:  c.ItemCount,
		}
	}

	nodes := root.FindAll("Item")
	c.Items = make([]Item, 0, len(nodes))
	for i, n := range nodes {
		it, err := ParseItem(n)
		if err != nil {
			c.Rejected = append(c.Rejected, &ItemError{Index: i, ProgramID: it.ProgramID, Err: err})
			continue
		}
		c.Items = append(c.Items, it)
	}
	return c, nil
}

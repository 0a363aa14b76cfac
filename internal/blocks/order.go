// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package blocks

import (
	"cmp"
	"slices"

	"blockpress/internal/models"
)

// SortBlocks orders blocks for rendering: by Order ascending, then by ID
// ascending for blocks sharing an Order. The store applies the same rule in
// SQL; this is for block lists assembled in memory.
func SortBlocks(bs []models.Block) {
	slices.SortStableFunc(bs, func(a, b models.Block) int {
		if c := cmp.Compare(a.Order, b.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

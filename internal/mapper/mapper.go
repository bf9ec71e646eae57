// Package mapper converts between geometric extents and grid cells.
package mapper

import (
	"github.com/mohammed-shakir/meshcode/internal/core/model"
)

type Interface interface {
	CellsForBBox(bb model.BBox, level int) (model.Cells, error)
	ToParent(cell string, level int) (string, error)
	ToChildren(cell string, level int) (model.Cells, error)
}

package meshmapper

import (
	"github.com/mohammed-shakir/meshcode/internal/core/model"
	"github.com/mohammed-shakir/meshcode/internal/mapper"
	"github.com/mohammed-shakir/meshcode/pkg/meshcode"
)

var _ mapper.Interface = (*Mapper)(nil)

// Mapper covers extents with mesh cells. maxCells bounds every
// enumeration; zero disables the bound.
type Mapper struct {
	maxCells int
}

func New(maxCells int) *Mapper { return &Mapper{maxCells: maxCells} }

func (m *Mapper) CellsForBBox(bb model.BBox, level int) (model.Cells, error) {
	cells, err := meshcode.CellsInBBox(bb.Y1, bb.X1, bb.Y2, bb.X2, level, m.maxCells)
	if err != nil {
		return nil, err
	}
	return model.Cells(cells), nil
}

func (m *Mapper) ToParent(cell string, level int) (string, error) {
	return meshcode.Parent(cell, level)
}

func (m *Mapper) ToChildren(cell string, level int) (model.Cells, error) {
	kids, err := meshcode.Descendants(cell, level, m.maxCells)
	if err != nil {
		return nil, err
	}
	return model.Cells(kids), nil
}

// Package model defines core domain types shared across the service.
package model

import "fmt"

// BBox is a lon/lat rectangle; X is longitude and Y latitude.
type BBox struct {
	X1, Y1 float64
	X2, Y2 float64
	SRID   string
}

// String representation matching the bbox query parameter
func (b BBox) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f,%s", b.X1, b.Y1, b.X2, b.Y2, b.SRID)
}

// Cells is a sorted, de-duplicated list of cell identifiers.
type Cells []string

// Crosswalk pairs a mesh cell with the H3 cells covering it.
type Crosswalk struct {
	Code  string `json:"code"`
	Res   int    `json:"res"`
	Cells Cells  `json:"h3"`
}

package meshmapper

import (
	"errors"
	"reflect"
	"slices"
	"sort"
	"testing"

	"github.com/mohammed-shakir/meshcode/internal/core/model"
	"github.com/mohammed-shakir/meshcode/pkg/meshcode"
)

func TestBBox_HappyPath_SortedUnique(t *testing.T) {
	m := New(10000)
	bb := model.BBox{X1: 139.70, Y1: 35.60, X2: 139.80, Y2: 35.70, SRID: "EPSG:4326"}

	cells, err := m.CellsForBBox(bb, 3)
	if err != nil {
		t.Fatalf("CellsForBBox err: %v", err)
	}
	if len(cells) == 0 {
		t.Fatalf("expected non-empty cells for bbox")
	}
	if !sort.StringsAreSorted([]string(cells)) {
		t.Fatalf("cells must be sorted")
	}
	if hasDups(cells) {
		t.Fatalf("cells must be de-duplicated")
	}
	if !slices.Contains(cells, "53393589") {
		t.Fatalf("expected tokyo tower cell in %v", cells)
	}

	again, _ := m.CellsForBBox(bb, 3)
	if !reflect.DeepEqual(cells, again) {
		t.Fatalf("expected identical output for identical input")
	}
}

func TestBBox_LimitAndLevel(t *testing.T) {
	m := New(100)
	bb := model.BBox{X1: 139, Y1: 35, X2: 140, Y2: 36, SRID: "EPSG:4326"}

	if _, err := m.CellsForBBox(bb, 6); !errors.Is(err, meshcode.ErrTooManyCells) {
		t.Fatalf("err=%v want ErrTooManyCells", err)
	}
	if _, err := m.CellsForBBox(bb, 0); !errors.Is(err, meshcode.ErrInvalidLevel) {
		t.Fatalf("err=%v want ErrInvalidLevel", err)
	}
}

func TestHierarchy_RoundTrip_ParentChildren(t *testing.T) {
	m := New(0)
	cell, err := meshcode.Encode(35.6813489, 139.766029, 5)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	parent, err := m.ToParent(cell, 3)
	if err != nil {
		t.Fatalf("ToParent: %v", err)
	}
	children, err := m.ToChildren(parent, 5)
	if err != nil {
		t.Fatalf("ToChildren: %v", err)
	}
	if len(children) != 16 {
		t.Fatalf("children=%d want 16", len(children))
	}
	if !slices.Contains(children, cell) {
		t.Fatalf("children at level 5 did not include original cell %s", cell)
	}
	if !sort.StringsAreSorted([]string(children)) {
		t.Fatalf("children must be sorted")
	}
}

func TestHierarchy_BadTransitions(t *testing.T) {
	m := New(1000)
	cell := "533935894"

	if _, err := m.ToParent(cell, 5); err == nil {
		t.Fatalf("expected error for parent level > current level")
	}
	if _, err := m.ToChildren(cell, 3); err == nil {
		t.Fatalf("expected error for child level < current level")
	}
	if _, err := m.ToChildren("5339", 6); !errors.Is(err, meshcode.ErrTooManyCells) {
		t.Fatalf("err=%v want ErrTooManyCells", err)
	}
}

func hasDups(s []string) bool {
	seen := map[string]struct{}{}
	for _, v := range s {
		if _, ok := seen[v]; ok {
			return true
		}
		seen[v] = struct{}{}
	}
	return false
}

package geojson

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/mohammed-shakir/meshcode/pkg/meshcode"
)

type featureDoc struct {
	Type     string    `json:"type"`
	ID       string    `json:"id"`
	BBox     []float64 `json:"bbox"`
	Geometry struct {
		Type        string          `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

func TestFeature_PolygonMatchesBounds(t *testing.T) {
	f, err := Feature("53393589")
	if err != nil {
		t.Fatalf("Feature: %v", err)
	}
	raw, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc featureDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	if doc.Type != "Feature" || doc.Geometry.Type != "Polygon" {
		t.Fatalf("unexpected types in %s", raw)
	}
	if doc.Properties["code"] != "53393589" || doc.Properties["level"] != float64(3) {
		t.Fatalf("unexpected properties %v", doc.Properties)
	}

	b, _ := meshcode.BoundsOf("53393589")
	ring := doc.Geometry.Coordinates[0]
	if len(ring) != 5 || ring[0] != ring[4] {
		t.Fatalf("ring must be closed with 5 positions, got %v", ring)
	}
	want := [][2]float64{{b.West, b.South}, {b.East, b.South}, {b.East, b.North}, {b.West, b.North}}
	for i, w := range want {
		if ring[i] != w {
			t.Fatalf("ring[%d]=%v want %v", i, ring[i], w)
		}
	}
	if len(doc.BBox) != 4 || doc.BBox[0] != b.West || doc.BBox[3] != b.North {
		t.Fatalf("bbox=%v want [%v %v %v %v]", doc.BBox, b.West, b.South, b.East, b.North)
	}
}

func TestFeatureCollection(t *testing.T) {
	kids, _ := meshcode.Children("53393589")
	fc, err := FeatureCollection(kids)
	if err != nil {
		t.Fatalf("FeatureCollection: %v", err)
	}
	if len(fc.Features) != 4 {
		t.Fatalf("features=%d want 4", len(fc.Features))
	}
	parent, _ := meshcode.BoundsOf("53393589")
	if fc.BBox.Min(0) != parent.West || fc.BBox.Max(1) != parent.North {
		t.Fatalf("collection bbox %v should equal parent bounds %+v", fc.BBox, parent)
	}

	empty, err := FeatureCollection(nil)
	if err != nil || len(empty.Features) != 0 || empty.BBox != nil {
		t.Fatalf("empty collection: %+v err=%v", empty, err)
	}
}

func TestFeature_InvalidCode(t *testing.T) {
	if _, err := Feature("abc"); !errors.Is(err, meshcode.ErrInvalidCode) {
		t.Fatalf("err=%v want ErrInvalidCode", err)
	}
}

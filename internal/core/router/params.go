package router

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/meshcode/internal/core/model"
)

// paramError marks malformed request parameters.
type paramError struct {
	msg string
}

func (e *paramError) Error() string { return e.msg }

func badParam(format string, args ...any) error {
	return &paramError{msg: fmt.Sprintf(format, args...)}
}

func isParamError(err error) bool {
	var pe *paramError
	return errors.As(err, &pe)
}

func queryFloat(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, badParam("missing required parameter: %s", name)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, badParam("invalid %s: %q is not a number", name, raw)
	}
	return f, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badParam("invalid %s: %q is not an integer", name, raw)
	}
	return n, nil
}

// parseBBOX accepts x1,y1,x2,y2 with an optional trailing EPSG:4326.
func parseBBOX(bboxParam string) (model.BBox, error) {
	parts := strings.Split(bboxParam, ",")
	if len(parts) != 4 && len(parts) != 5 {
		return model.BBox{}, errors.New("expected 4 or 5 comma-separated values: x1,y1,x2,y2[,EPSG:4326]")
	}
	var v [4]float64
	for i, name := range []string{"x1", "y1", "x2", "y2"} {
		f, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return model.BBox{}, fmt.Errorf("%s: parse float: %w", name, err)
		}
		v[i] = f
	}

	srid := "EPSG:4326"
	if len(parts) == 5 {
		srid = strings.ToUpper(strings.TrimSpace(parts[4]))
		if srid != "EPSG:4326" {
			return model.BBox{}, fmt.Errorf("only EPSG:4326 is supported (got %q)", srid)
		}
	}

	xMin, yMin, xMax, yMax := v[0], v[1], v[2], v[3]
	if !(xMin >= -180 && xMin <= 180 && xMax >= -180 && xMax <= 180) {
		return model.BBox{}, errors.New("longitude must be in [-180,180]")
	}
	if !(yMin >= -90 && yMin <= 90 && yMax >= -90 && yMax <= 90) {
		return model.BBox{}, errors.New("latitude must be in [-90,90]")
	}
	if xMax < xMin || yMax < yMin {
		return model.BBox{}, errors.New("coordinates must satisfy x2>=x1 and y2>=y1")
	}
	return model.BBox{X1: xMin, Y1: yMin, X2: xMax, Y2: yMax, SRID: srid}, nil
}

package keys

import (
	"fmt"
	"strings"
)

const crosswalkPrefix = "xwalk:h3"

// Crosswalk names the cached H3 covering of a mesh cell at res.
func Crosswalk(code string, res int) string {
	return fmt.Sprintf("%s:%d:%s", crosswalkPrefix, res, strings.TrimSpace(code))
}

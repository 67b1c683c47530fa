package utils

import (
	"github.com/davecgh/go-spew/spew"
)

var spewConfig *spew.ConfigState

func init() {
	spewConfig = spew.NewDefaultConfig()
	spewConfig.DisableCapacities = true
	spewConfig.DisablePointerAddresses = true
	spewConfig.SortKeys = true
}

// SDump formats values for debug logs without pointer addresses, so dumps of
// equal meshes compare equal.
func SDump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}

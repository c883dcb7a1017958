package utils

import (
	"io"

	"github.com/davecgh/go-spew/spew"
)

// dumps of equal values are equal text
var spewConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

func SDump(a ...interface{}) string {
	return spewConfig.Sdump(a...)
}

func FDump(w io.Writer, a ...interface{}) {
	spewConfig.Fdump(w, a...)
}

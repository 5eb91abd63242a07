package ingredient

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
	DisableMethods:          true,
}

// Dump prints v to stdout prefixed with the caller's position.
func Dump(v ...any) {
	_, file, line, _ := runtime.Caller(1)
	args := append([]any{fmt.Sprintf("%s:%d:", file, line)}, v...)
	dumpConfig.Fdump(os.Stdout, args...)
}

// Fdump prints v to w without the caller prefix.
func Fdump(w io.Writer, v ...any) {
	dumpConfig.Fdump(w, v...)
}

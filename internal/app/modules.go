package app

import (
	"io"

	"github.com/specialistvlad/svcgrid/internal/registry"
	"github.com/specialistvlad/svcgrid/modules/echo"
	"github.com/specialistvlad/svcgrid/modules/env_vars"

	prnt "github.com/specialistvlad/svcgrid/modules/print"
)

// coreModules is the definitive list of all controller modules that are
// compiled into the svcgrid binary. Printing controllers share outW with
// the result lines.
func coreModules(outW io.Writer) []registry.Module {
	return []registry.Module{
		&echo.Module{},
		&env_vars.Module{},
		&prnt.Module{Out: outW},
	}
}

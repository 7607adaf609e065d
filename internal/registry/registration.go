package registry

import (
	"fmt"

	"github.com/specialistvlad/svcgrid/internal/controller"
)

// Registration describes how a controller is constructed. It is implemented
// only by Path, Factory and Auto.
type Registration interface {
	fmt.Stringer
	registration()
}

// Path refers to a controller manifest resolved at load time.
type Path struct {
	Locator string
}

// Factory supplies the constructor directly.
type Factory struct {
	New controller.Factory
}

// Auto asks for the generic auto-provisioned controller.
type Auto struct{}

func (Path) registration()    {}
func (Factory) registration() {}
func (Auto) registration()    {}

func (p Path) String() string  { return "path(" + p.Locator + ")" }
func (Factory) String() string { return "factory" }
func (Auto) String() string    { return "auto" }

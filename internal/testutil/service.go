package testutil

import (
	"context"
	"errors"

	"github.com/specialistvlad/svcgrid/internal/controller"
)

// ErrNoSiblings is returned by FakeService.Controller.
var ErrNoSiblings = errors.New("testutil: fake service has no controllers")

// FakeService is a controller.Service for tests that build controllers
// without a real service around them.
type FakeService struct {
	ServiceName string
	Opts        controller.Options
}

// NewFakeService returns a FakeService named "test".
func NewFakeService() *FakeService {
	return &FakeService{ServiceName: "test", Opts: controller.Options{}}
}

func (s *FakeService) Name() string                { return s.ServiceName }
func (s *FakeService) Options() controller.Options { return s.Opts }

func (s *FakeService) Controller(context.Context, string) (controller.Controller, error) {
	return nil, ErrNoSiblings
}

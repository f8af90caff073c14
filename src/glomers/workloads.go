package glomers

import (
	"fmt"

	"github.com/mosaicnetworks/glomers/src/config"
	"github.com/mosaicnetworks/glomers/src/workload"
	"github.com/mosaicnetworks/glomers/src/workload/echo"
	"github.com/mosaicnetworks/glomers/src/workload/uniqueids"
)

// New returns the engine of the workload named by conf.Workload.
func New(conf *config.Config) (Engine, error) {
	switch conf.Workload {
	case workload.Echo:
		return NewGlomers[echo.Message](conf, echo.NewCatalog(), echo.NewHandler()), nil
	case workload.UniqueIDs:
		return NewGlomers[uniqueids.Message](conf, uniqueids.NewCatalog(), uniqueids.NewHandler()), nil
	default:
		return nil, fmt.Errorf("unknown workload %q, expected one of %v", conf.Workload, workload.Names())
	}
}

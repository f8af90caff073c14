// Package glomers assembles a complete node process.
//
// A Glomers engine takes a Config, a payload catalog and a handler, and builds
// everything else: the line transport over stdin and stdout (or over a single
// TCP connection), the optional journal, and the node itself.
//
//	conf := config.NewDefaultConfig()
//	engine := glomers.NewGlomers[echo.Message](conf, echo.NewCatalog(), echo.NewHandler())
//	if err := engine.Init(); err != nil {
//		return err
//	}
//	defer engine.Close()
//	return engine.Run()
//
// New picks the engine of one of the example workloads by name.
package glomers

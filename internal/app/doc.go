// Package app wires the cleaning pipeline together: configuration,
// logging, telemetry, the dataset registry, the run manager and the
// exporter. Commands in cmd/surveyclean drive an Application; they never
// assemble components themselves.
//
// # Usage
//
//	cfg, err := config.Load(configPath)
//	if err != nil {
//		return err
//	}
//	a, err := app.New(cfg, logger)
//	if err != nil {
//		return err
//	}
//	defer a.Shutdown(context.Background())
//
//	state, err := a.Clean(ctx, nil)
//
// # Error Handling
//
// Initialization errors are returned to the caller. The package does not
// call os.Exit, so the command controls the exit code.
package app

package shared

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// SetupSignalHandler returns a context cancelled on interrupt or SIGTERM.
// The signal is logged before cancelling.
func SetupSignalHandler(parent context.Context, logger zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down gracefully")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

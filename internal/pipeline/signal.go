package pipeline

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithSignals returns a context that is canceled when a termination
// signal arrives, so running stages can drain instead of being killed
// mid-write.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		select {
		case sig := <-sigs:
			log.Warnf("received signal %s, stopping after in-flight work", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()

	return ctx, cancel
}

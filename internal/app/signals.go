package app

import (
	"os"
	"os/signal"
	"syscall"
)

// WaitForSignals quits the app on os.Interrupt or syscall.SIGTERM so the
// window geometry is persisted before the process exits.
func (a *App) WaitForSignals() {
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		// Block until signal received
		sig := <-sigChan
		signal.Stop(sigChan)

		a.logger.Info("Received signal, quitting", "signal", sig.String())
		a.Quit()
	}()
}

package shutdown

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/melvinsclub/club-backend/pkg/lifecycle"
)

// Coordinator orchestrates the two-phase graceful shutdown. It receives the
// externally created lifecycle managers and uses them to coordinate.
type Coordinator struct {
	GracefulManager *lifecycle.Manager
	ForcefulManager *lifecycle.Manager
}

// NewCoordinator creates a shutdown coordinator.
func NewCoordinator(gracefulMgr, forcefulMgr *lifecycle.Manager) *Coordinator {
	return &Coordinator{
		GracefulManager: gracefulMgr,
		ForcefulManager: forcefulMgr,
	}
}

// ListenForSignalsAndShutdown blocks until a termination signal arrives, then
// drives the shutdown sequence to completion.
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	fmt.Println("\nShutdown signal received, starting graceful shutdown...")

	// Stop the HTTP server first so in-flight requests can finish.
	httpTimeout := 15 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("HTTP server shutdown error: %v\n", err)
	} else {
		fmt.Println("HTTP server stopped.")
	}

	// Phase one: graceful. Background workers get time to finish their
	// current pass.
	gracefulTimeout := 30 * time.Second
	fmt.Printf("Shutdown phase one: waiting up to %v for workers...\n", gracefulTimeout)
	c.GracefulManager.Shutdown()

	remainingServices := c.GracefulManager.WaitWithTimeout(gracefulTimeout)
	if len(remainingServices) == 0 {
		fmt.Println("All workers stopped in phase one.")
	} else {
		// Phase two: forceful. Loops must exit immediately on this signal.
		forcefulTimeout := 1 * time.Second
		fmt.Printf("Phase one timed out for %v. Broadcasting forceful stop (up to %v)...\n", remainingServices, forcefulTimeout)
		c.ForcefulManager.Shutdown()
		c.ForcefulManager.WaitWithTimeout(forcefulTimeout)
	}

	// SQLite is the source of truth and every write already committed, so
	// no final flush is needed.
	fmt.Println("Graceful shutdown complete.")
}

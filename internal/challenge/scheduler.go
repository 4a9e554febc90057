package challenge

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/melvinsclub/club-backend/pkg/lifecycle"
)

const schedulerInterval = time.Minute

type schedulerSource struct{}

func (schedulerSource) Float64() float64 { return rand.Float64() }
func (schedulerSource) IntN(n int) int   { return rand.IntN(n) }

// StartScheduler runs the challenge lifecycle loop: activate challenges
// whose window has opened, end expired ones and draw their winners. Stops
// when the handle signals shutdown.
func StartScheduler(handle *lifecycle.Handle) {
	defer handle.Close()

	fmt.Println("Challenge scheduler started.")
	for {
		if err := handle.Sleep(schedulerInterval); err != nil {
			fmt.Println("Challenge scheduler stopped.")
			return
		}
		RunSchedulerPass(time.Now())
	}
}

// RunSchedulerPass executes one scheduler tick. Split out so tests can drive
// it with a fixed clock. Draws every ended challenge, including ones whose
// earlier draws were undersubscribed.
func RunSchedulerPass(now time.Time) {
	if _, err := AdvanceStatuses(now); err != nil {
		fmt.Printf("warning: challenge status advance failed: %v\n", err)
		return
	}

	ended, err := PendingDraws()
	if err != nil {
		fmt.Printf("warning: failed to list pending draws: %v\n", err)
		return
	}

	for _, id := range ended {
		if _, err := SelectWinners(schedulerSource{}, id); err != nil {
			// An undersubscribed draw stays pending; rerun next tick.
			fmt.Printf("warning: draw for challenge %d not completed: %v\n", id, err)
		} else {
			fmt.Printf("Challenge %d winners selected.\n", id)
		}
	}
}

package commands

import (
	"errors"

	"parcelhub/internal/pkg/guard"
)

var ErrRecomputeSurgeCommandIsNotConstructed = errors.New(
	"RecomputeSurgeCommand must be created via NewRecomputeSurgeCommand constructor",
)

// RecomputeSurgeCommand triggers a surge multiplier recompute over a
// point-in-time fleet scan. Only the scheduler issues it; request paths
// read frozen multipliers and never recompute.
//
// Example:
//
//	cmd := NewRecomputeSurgeCommand()
//	ticker := time.NewTicker(interval)
//	for range ticker.C {
//	    if err := handler.Handle(ctx, cmd); err != nil {
//	        log.Printf("surge recompute failed: %v", err)
//	    }
//	}
type RecomputeSurgeCommand struct {
	guard guard.ConstructorGuard
}

// NewRecomputeSurgeCommand creates a parameterless recompute trigger.
func NewRecomputeSurgeCommand() RecomputeSurgeCommand {
	return RecomputeSurgeCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *RecomputeSurgeCommand) Validate() error {
	return c.guard.Validate(ErrRecomputeSurgeCommandIsNotConstructed)
}

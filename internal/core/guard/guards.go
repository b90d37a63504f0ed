// Package guard contains the pure business logic for scaffolding an
// authentication guard. Guards are pure functions that evaluate
// preconditions; the planner turns pre-read project state into effects.
package guard

import (
	"fmt"

	"github.com/example/guardgen/internal/scaffold"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateGuardContext provides context for guard creation checks.
type CreateGuardContext struct {
	Name string
	// Entered holds the names already collected this session.
	Entered []string
}

// CanCreateGuard evaluates whether a name can be added to the session.
// Rules:
// - Name must produce valid identifiers
// - Its guard key, class name and provider key must not clash with an
//   entered guard, since those name the files and entries it writes
func CanCreateGuard(ctx CreateGuardContext) GuardResult {
	ids, err := scaffold.Derive(ctx.Name)
	if err != nil {
		return GuardResult{Allowed: false, Reason: err.Error()}
	}

	for _, name := range ctx.Entered {
		other, err := scaffold.Derive(name)
		if err != nil {
			continue
		}
		switch {
		case other.LowerKey == ids.LowerKey:
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("guard %q was already entered", ids.LowerKey),
			}
		case other.StudlyClass == ids.StudlyClass, other.ProviderKey == ids.ProviderKey:
			return GuardResult{
				Allowed: false,
				Reason: fmt.Sprintf("guard %q would share the %s model and %q provider with %q",
					ids.LowerKey, ids.StudlyClass, ids.ProviderKey, other.LowerKey),
			}
		}
	}

	return GuardResult{Allowed: true}
}

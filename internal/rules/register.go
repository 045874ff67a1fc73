package rules

import (
	"github.com/donaldgifford/jrefactor/internal/rules/cleanup"
)

func init() {
	// Modifier fixes run first so a node they stop on is cleaned of
	// semicolons in the next pass.
	Register(&cleanup.ModifierOrder{})
	Register(&cleanup.SemicolonCleanup{})
}

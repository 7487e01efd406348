package registry_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"orchestrun/ids"
	"orchestrun/registry"
)

// TestRegisterThenRemoveThenRemoveIsLegal checks that after a successful
// register and remove, any number of further removes are legal no-ops.
func TestRegisterThenRemoveThenRemoveIsLegal(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("repeated remove after register is always a no-op", prop.ForAll(
		func(extraRemoves int) bool {
			r := registry.New()
			id := ids.NewConversationID()
			b := newTestBridge(id)

			if err := r.Register(b); err != nil {
				return false
			}

			first := r.Remove(id)
			if !first {
				return false
			}
			for i := 0; i < extraRemoves; i++ {
				if r.Remove(id) {
					return false // at most one remove ever succeeds
				}
			}
			_, found := r.Get(id)
			return !found
		},
		gen.IntRange(0, 10),
	))

	properties.TestingRun(t)
}

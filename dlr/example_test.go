package dlr_test

import (
	"fmt"

	"github.com/katalvlaran/gfmesh/dlr"
	"github.com/katalvlaran/gfmesh/domain"
)

// ExampleGet shows that bases are memoized per parameter set.
func ExampleGet() {
	a, _ := dlr.Get(20, 1e-8, domain.Fermion)
	b, _ := dlr.Get(20, 1e-8, domain.Fermion)
	fmt.Println(a == b, a.Rank() == a.ImTime().Rank())
	// Output: true true
}

// services/kbd/fake.go
package kbd

import (
	"keymatrix-go/services/kbd/internal/platform"
	"keymatrix-go/types"
)

// FakeMatrix is a simulated switch matrix for tests and host tooling.
type FakeMatrix = platform.FakeMatrix

func NewFakeMatrix(rows, cols int, orient types.DiodeOrientation) *FakeMatrix {
	return platform.NewFakeMatrix(rows, cols, orient)
}

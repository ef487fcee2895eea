package snarkvm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	require.NoError(t, Version.Validate())
}

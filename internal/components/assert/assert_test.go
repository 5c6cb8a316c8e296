package assert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAssertions(t *testing.T) {
	require.NotPanics(t, func() { NotNil(1) })
	require.Panics(t, func() { NotNil(nil) })
	require.Panics(t, func() { NotEmptyStr("") })
	require.NotPanics(t, func() { Positive(int(30 * time.Second)) })
	require.Panics(t, func() { Positive(0) })
}

package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	t.Run(`numeric dotted ordering check`, func(t *testing.T) {
		cmp, err := Compare("1.2", "1.10")
		require.Nil(t, err)
		require.Equal(t, -1, cmp)

		cmp, err = Compare("1.10", "1.2")
		require.Nil(t, err)
		require.Equal(t, 1, cmp)

		cmp, err = Compare("1.10", "1.10")
		require.Nil(t, err)
		require.Equal(t, 0, cmp)

		cmp, err = Compare("2.0", "1.99")
		require.Nil(t, err)
		require.Equal(t, 1, cmp)

		cmp, err = Compare("1.0", "1.0.1")
		require.Nil(t, err)
		require.Equal(t, -1, cmp)
	})

	t.Run(`invalid labels check`, func(t *testing.T) {
		_, err := Compare("", "1.0")
		require.NotNil(t, err)

		_, err = Compare("1.a", "1.0")
		require.NotNil(t, err)

		_, err = NextMinor("v1.0")
		require.NotNil(t, err)
	})

	t.Run(`next minor check`, func(t *testing.T) {
		next, err := NextMinor("1.0")
		require.Nil(t, err)
		require.Equal(t, "1.1", next)

		next, err = NextMinor("1.9")
		require.Nil(t, err)
		require.Equal(t, "1.10", next)

		next, err = NextMinor("2.10")
		require.Nil(t, err)
		require.Equal(t, "2.11", next)
	})
}

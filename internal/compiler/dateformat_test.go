package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrftimeToGoLayout(t *testing.T) {
	cases := map[string]string{
		"%Y-%m-%d":          "2006-01-02",
		"%d/%m/%Y":          "02/01/2006",
		"%Y-%m-%dT%H:%M:%S": "2006-01-02T15:04:05",
	}
	for in, want := range cases {
		require.Equal(t, want, strftimeToGoLayout(in))
	}
}

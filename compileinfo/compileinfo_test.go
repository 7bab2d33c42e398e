package compileinfo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProducer(t *testing.T) {
	cases := []struct {
		name string
		info CompileInfo
		want string
	}{
		{"empty", CompileInfo{}, "unknown"},
		{"tagged", CompileInfo{Package: "example.com/x", Version: "v1.2.0", GoVersion: "go1.18"}, "example.com/x@v1.2.0 (go1.18)"},
		{"devel", CompileInfo{Package: "example.com/x", Version: "(devel)", Commit: "0123456789abcdef", Modified: true}, "example.com/x@(devel)+0123456789ab-dirty"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.info.Producer())
		})
	}
}

func TestString(t *testing.T) {
	s := CompileInfo{Package: "example.com/x", GoVersion: "go1.18", Modified: true}.String()
	require.Contains(t, s, "example.com/x")
	require.Contains(t, s, "(devel)")
	require.Contains(t, s, "modified")
}

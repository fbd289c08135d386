package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no arguments", args: []string{}},
		{name: "too many arguments", args: []string{"a.json", "b.json", "c.json"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var errOut bytes.Buffer
			rootCmd.SetErr(&errOut)
			rootCmd.SetArgs(test.args)

			err := rootCmd.Execute()
			require.Error(t, err)
			assert.Contains(t, errOut.String(), "Usage: catalogsync <pricing-file> [general-file]")
		})
	}
}

package ci

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnotatorChannels(t *testing.T) {
	var out, errOut bytes.Buffer
	a := NewAnnotator(&out, &errOut)

	a.Errorf("pricing/openai.json", "Pricing file not found")
	a.Errorf("", "something broke")
	a.Warningf("Could not find root closing brace in %s, skipping", "general/x.json")
	a.Noticef("No general file at %s, skipping", "general/x.json")
	a.Printf("Added missing models to %s:", "general/openai.json")

	assert.Equal(t,
		"::error file=pricing/openai.json::Pricing file not found\n"+
			"::error::something broke\n"+
			"::warning::Could not find root closing brace in general/x.json, skipping\n",
		errOut.String())
	assert.Equal(t,
		"::notice::No general file at general/x.json, skipping\n"+
			"Added missing models to general/openai.json:\n",
		out.String())
}

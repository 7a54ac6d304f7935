package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCamelCase(t *testing.T) {
	tests := map[string]string{
		"Welcome message": "welcomeMessage",
		"foo-bar_baz":     "fooBarBaz",
		"fooBar baz":      "fooBarBaz",
		"  leading space": "leadingSpace",
		"HELLO WORLD":     "helloWorld",
		"step 2 done":     "step2Done",
		"Ünïcode wörds":   "ünïcodeWörds",
		"XMLHttpRequest":  "xmlHttpRequest",
		"What's up?":      "whatsUp",
		"fooBAR":          "fooBar",
		"ask2Size":        "ask2size",
		"":                "",
		"!!!":             "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, CamelCase(in))
		})
	}
}

func TestArtifactName_IsFilesystemSafe(t *testing.T) {
	assert.Equal(t, "order_pizza_askSize", ArtifactName("order_pizza", "Ask size"))
	assert.Equal(t, "yes_no_confirm", ArtifactName("yes/no", "confirm"))
	assert.Equal(t, "a_b_c_", ArtifactName("a:b*c", ""))
}

package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPriorities(t *testing.T) {
	d := Default()
	assert.Equal(t, 170, d.InfixPriority("+"))
	assert.Equal(t, 180, d.InfixPriority("*"))
	assert.Greater(t, d.InfixPriority("*"), d.InfixPriority("+"), "* must bind tighter than +")
	assert.Equal(t, d.DefaultPriority, d.InfixPriority("~nonexistent~"))
}

func TestDefaultDelimiters(t *testing.T) {
	d := Default()
	end, ok := d.IsComment("//")
	require.True(t, ok)
	assert.Equal(t, "\n", end)

	end, ok = d.IsBlock("(")
	require.True(t, ok)
	assert.Equal(t, ")", end)
}

func TestKnownPrefixesFromMultiCharSymbols(t *testing.T) {
	d := Default()
	assert.True(t, d.KnownPrefix(":"), ":= should register : as a known prefix")
	assert.True(t, d.KnownToken(":="))
}

func TestReadFileBasicSections(t *testing.T) {
	src := `
		50 STATEMENT
		250 FUNCTION
		5 DEFAULT

		INFIX
		100 "like"
		200 "unlike"

		PREFIX
		300 "negate"

		COMMENT
		"--" NEWLINE

		BLOCK
		10 "<[" "]>"
	`
	table := New("test")
	if err := table.ReadFile(strings.NewReader(src)); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	assert.Equal(t, 50, table.StatementPriority)
	assert.Equal(t, 250, table.FunctionPriority)
	assert.Equal(t, 5, table.DefaultPriority)
	assert.Equal(t, 100, table.InfixPriority("like"))
	assert.Equal(t, 200, table.InfixPriority("unlike"))
	assert.Equal(t, 300, table.PrefixPriority("negate"))

	end, ok := table.IsComment("--")
	require.True(t, ok)
	assert.Equal(t, "\n", end)

	blockEnd, ok := table.IsBlock("<[")
	require.True(t, ok)
	assert.Equal(t, "]>", blockEnd)
	assert.Equal(t, 10, table.InfixPriority("<["))
}

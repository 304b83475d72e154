package fixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyReplacesUsesValue(t *testing.T) {
	src := "jobs:\n  build:\n    steps:\n      - uses: actions/checkout@v2\n"
	start := len("jobs:\n  build:\n    steps:\n      - uses: ")
	end := start + len("actions/checkout@v2")

	patch := Patch{Safety: Safe, Edits: []Edit{
		{Kind: EditReplace, Start: start, End: end, Text: "actions/checkout@0ffb1c1e8f67a0e0b6fffa3e7e1c2a6f4f70ab6b"},
	}}

	out, err := Apply([]byte(src), []Patch{patch})
	require.NoError(t, err)
	assert.Contains(t, string(out), "uses: actions/checkout@0ffb1c1e8f67a0e0b6fffa3e7e1c2a6f4f70ab6b")
}

func TestApplyRejectsOverlappingEdits(t *testing.T) {
	src := "a: 1\nb: 2\n"
	patches := []Patch{
		{Edits: []Edit{{Kind: EditReplace, Start: 0, End: 4, Text: "x: 1"}}},
		{Edits: []Edit{{Kind: EditReplace, Start: 2, End: 5, Text: "y: 2"}}},
	}
	_, err := Apply([]byte(src), patches)
	assert.Error(t, err)
}

func TestApplyRejectsResultThatFailsToParse(t *testing.T) {
	src := "a: 1\nb: 2\n"
	patch := Patch{Edits: []Edit{{Kind: EditReplace, Start: 0, End: 1, Text: "[unterminated"}}}
	_, err := Apply([]byte(src), []Patch{patch})
	assert.Error(t, err)
}

func TestApplyInsertIndentsContinuationLines(t *testing.T) {
	src := "- uses: actions/checkout@v4\n"
	insertAt := len("- uses: actions/checkout@v4")
	patch := Patch{Edits: []Edit{
		{Kind: EditInsert, Start: insertAt, End: insertAt, Text: "\nwith:\n  persist-credentials: false", IndentHint: "  "},
	}}
	out, err := Apply([]byte(src), []Patch{patch})
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  with:\n    persist-credentials: false")
}

func TestApplyWithNoEditsReturnsOriginal(t *testing.T) {
	src := []byte("a: 1\n")
	out, err := Apply(src, nil)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

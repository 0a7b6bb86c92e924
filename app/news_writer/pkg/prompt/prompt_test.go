package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	b := Builder{
		Preamble: "Write a concise, engaging stock news article based on the following information:",
		Suffix:   "Keep it professional, clear, and under 150 words.",
	}

	got := b.Build("Fed holds. Rates unchanged")
	want := "Write a concise, engaging stock news article based on the following information:\n\n" +
		"Fed holds. Rates unchanged\n\n" +
		"Keep it professional, clear, and under 150 words."
	assert.Equal(t, want, got)
}

func TestBuild_Deterministic(t *testing.T) {
	b := Builder{Preamble: "Rewrite:", Suffix: "Be brief."}
	text := "Text with {braces}, %s verbs, <tags> & \"quotes\"\nand newlines"

	first := b.Build(text)
	assert.Equal(t, first, b.Build(text))
	assert.True(t, strings.HasPrefix(first, "Rewrite:\n\n"+text))
}

func TestBuild_NoSuffix(t *testing.T) {
	assert.Equal(t, "Rewrite:\n\nbody", Builder{Preamble: "Rewrite:"}.Build("body"))
}

func TestBuild_LongTextNotTruncated(t *testing.T) {
	text := strings.Repeat("x", 50000)
	assert.Contains(t, Builder{Preamble: "p"}.Build(text), text)
}

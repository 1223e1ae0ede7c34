package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func typeText(t TextInput, s string) TextInput {
	for _, r := range s {
		t, _ = t.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return t
}

func TestTextInput_NumericOnlyFiltersKeys(t *testing.T) {
	in := typeText(NewTextInput("", true, 20), "1a/٢x.5")
	assert.Equal(t, "1/٢.5", in.Value())

	free := typeText(NewTextInput("", false, 20), "1a")
	assert.Equal(t, "1a", free.Value())
}

func TestTextInput_EditClearsMark(t *testing.T) {
	in := typeText(NewTextInput("", false, 20), "cat")
	in.SetMark(MarkWrong)
	assert.Equal(t, MarkWrong, in.Mark())
	assert.Contains(t, in.View(), "✗")

	// Arrow keys move the cursor without changing the answer.
	in, _ = in.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.Equal(t, MarkWrong, in.Mark())

	in = typeText(in, "s")
	assert.Equal(t, Unmarked, in.Mark())
	assert.NotContains(t, in.View(), "✗")
}

func TestTextInput_Reset(t *testing.T) {
	in := typeText(NewTextInput("", false, 20), "dog")
	in.SetMark(MarkCorrected)
	assert.Contains(t, in.View(), "spelling fixed")

	in.Reset()
	assert.Empty(t, in.Value())
	assert.Equal(t, Unmarked, in.Mark())
	assert.True(t, in.Model.Focused())
}

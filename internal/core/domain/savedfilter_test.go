package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validFilter() *SavedFilter {
	return &SavedFilter{
		ID:          "f-1",
		Name:        "Regions",
		DisplayForm: "label.region",
		ElementsBy:  ElementsByURI,
		Mode:        SelectionModeMulti,
		Working:     SelectAll(),
		Committed:   SelectAll(),
	}
}

func TestSavedFilter_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SavedFilter)
	}{
		{"missing id", func(f *SavedFilter) { f.ID = "" }},
		{"missing display form", func(f *SavedFilter) { f.DisplayForm = "" }},
		{"bad key kind", func(f *SavedFilter) { f.ElementsBy = "title" }},
		{"bad mode", func(f *SavedFilter) { f.Mode = "many" }},
	}

	assert.NoError(t, validFilter().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFilter()
			tt.mutate(f)
			assert.ErrorIs(t, f.Validate(), ErrInvalidInput)
		})
	}
}

func TestSavedFilter_IsDirty(t *testing.T) {
	f := validFilter()
	assert.False(t, f.IsDirty())

	f.Working = SelectOnly("/elements/1")
	assert.True(t, f.IsDirty())
}

func TestSavedFilter_FilterUsesCommitted(t *testing.T) {
	f := validFilter()
	f.Working = SelectOnly("/elements/1")
	f.Committed = Selection{Inverted: true, Items: NewKeySet("/elements/2")}

	af := f.Filter()

	assert.Nil(t, af.Positive)
	if assert.NotNil(t, af.Negative) {
		assert.Equal(t, "label.region", af.Negative.DisplayForm)
		assert.Equal(t, []string{"/elements/2"}, af.Negative.NotIn.Keys)
	}
}

func TestSelectionOp_Validate(t *testing.T) {
	valid := []SelectionOp{
		{Kind: OpAdd, Keys: []string{"a"}},
		{Kind: OpRemove, Keys: []string{"a", "b"}},
		{Kind: OpOnly, Keys: []string{"a"}},
		{Kind: OpAll},
		{Kind: OpNone},
		{Kind: OpInvert},
		{Kind: OpClear},
	}
	for _, op := range valid {
		assert.NoError(t, op.Validate(), op.Kind)
	}

	invalid := []SelectionOp{
		{Kind: OpAdd},
		{Kind: OpRemove},
		{Kind: OpOnly},
		{Kind: OpOnly, Keys: []string{"a", "b"}},
		{Kind: "toggle"},
	}
	for _, op := range invalid {
		assert.ErrorIs(t, op.Validate(), ErrInvalidInput, op.Kind)
	}
}

package domain

import (
	"encoding/json"
	"fmt"
)

// AttributeElements is the list of element keys inside a filter,
// encoded as {"uris": [...]} or {"values": [...]}.
type AttributeElements struct {
	By   ElementsBy
	Keys []string
}

// MarshalJSON encodes the keys under "uris" or "values".
func (e AttributeElements) MarshalJSON() ([]byte, error) {
	keys := e.Keys
	if keys == nil {
		keys = []string{}
	}
	if e.By == ElementsByValue {
		return json.Marshal(struct {
			Values []string `json:"values"`
		}{keys})
	}
	return json.Marshal(struct {
		URIs []string `json:"uris"`
	}{keys})
}

// UnmarshalJSON decodes either "uris" or "values".
func (e *AttributeElements) UnmarshalJSON(data []byte) error {
	var raw struct {
		URIs   *[]string `json:"uris"`
		Values *[]string `json:"values"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.URIs != nil && raw.Values != nil:
		return fmt.Errorf("%w: elements hold both uris and values", ErrInvalidInput)
	case raw.Values != nil:
		*e = AttributeElements{By: ElementsByValue, Keys: *raw.Values}
	case raw.URIs != nil:
		*e = AttributeElements{By: ElementsByURI, Keys: *raw.URIs}
	default:
		return fmt.Errorf("%w: elements hold neither uris nor values", ErrInvalidInput)
	}
	return nil
}

// PositiveAttributeFilterBody selects exactly the listed elements.
type PositiveAttributeFilterBody struct {
	DisplayForm string            `json:"displayForm"`
	In          AttributeElements `json:"in"`
}

// NegativeAttributeFilterBody selects every element except the listed ones.
type NegativeAttributeFilterBody struct {
	DisplayForm string            `json:"displayForm"`
	NotIn       AttributeElements `json:"notIn"`
}

// AttributeFilter is the wire shape of a committed selection.
// Exactly one of Positive and Negative is set.
type AttributeFilter struct {
	Positive *PositiveAttributeFilterBody `json:"positiveAttributeFilter,omitempty"`
	Negative *NegativeAttributeFilterBody `json:"negativeAttributeFilter,omitempty"`
}

// FilterFromSelection converts a selection to its wire filter.
// A plain selection becomes a positive filter, an inverted one negative.
func FilterFromSelection(displayForm string, by ElementsBy, sel Selection) AttributeFilter {
	elements := AttributeElements{By: by, Keys: sel.Items.Keys()}
	if sel.Inverted {
		return AttributeFilter{Negative: &NegativeAttributeFilterBody{
			DisplayForm: displayForm,
			NotIn:       elements,
		}}
	}
	return AttributeFilter{Positive: &PositiveAttributeFilterBody{
		DisplayForm: displayForm,
		In:          elements,
	}}
}

// SelectionFromFilter extracts the display form, key kind and selection.
func SelectionFromFilter(f AttributeFilter) (string, ElementsBy, Selection, error) {
	switch {
	case f.Positive != nil && f.Negative != nil:
		return "", "", Selection{}, fmt.Errorf("%w: filter is both positive and negative", ErrInvalidInput)
	case f.Positive != nil:
		return f.Positive.DisplayForm, byOrDefault(f.Positive.In.By),
			Selection{Items: NewKeySet(f.Positive.In.Keys...)}, nil
	case f.Negative != nil:
		return f.Negative.DisplayForm, byOrDefault(f.Negative.NotIn.By),
			Selection{Inverted: true, Items: NewKeySet(f.Negative.NotIn.Keys...)}, nil
	default:
		return "", "", Selection{}, fmt.Errorf("%w: empty attribute filter", ErrInvalidInput)
	}
}

// DisplayForm returns the display form the filter applies to.
func (f AttributeFilter) DisplayForm() string {
	if f.Negative != nil {
		return f.Negative.DisplayForm
	}
	if f.Positive != nil {
		return f.Positive.DisplayForm
	}
	return ""
}

func byOrDefault(by ElementsBy) ElementsBy {
	if by == "" {
		return ElementsByURI
	}
	return by
}

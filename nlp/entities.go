package nlp

import (
	prose "github.com/jdkato/prose/v2"
)

// Places extracts GPE (geopolitical entity) mentions from the text in
// document order, duplicates included so callers can count frequency.
func Places(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}
	var places []string
	for _, ent := range doc.Entities() {
		if ent.Label == "GPE" {
			places = append(places, ent.Text)
		}
	}
	return places, nil
}

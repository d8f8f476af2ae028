// https://kanjiapi.dev
package kanjiapi

// Response is a kanji entry as returned by GET /v1/kanji/{character}.
type Response struct {
	Kanji         string   `json:"kanji"`
	Grade         int      `json:"grade"`
	StrokeCount   int      `json:"stroke_count"`
	Meanings      []string `json:"meanings"`
	KunReadings   []string `json:"kun_readings"`
	OnReadings    []string `json:"on_readings"`
	NameReadings  []string `json:"name_readings"`
	JLPT          int      `json:"jlpt"`
	Unicode       string   `json:"unicode"`
	HeisigKeyword string   `json:"heisig_en"`
}

// HasMeanings reports whether the entry carries a meanings list. Entries
// without one are treated as missing by the glossary renderer.
func (r Response) HasMeanings() bool {
	return r.Meanings != nil
}

package glossary

import (
	"sort"
	"strings"

	"github.com/jukmisael/japanese-glossary-generator/internal/dictionary/kanjiapi"
)

// Reading is one kanji reading with its romanization, when one was found.
type Reading struct {
	Type   string // "Kun" or "On"
	Name   string
	Romaji *string
}

// sortReadings orders readings by type then name, so Kun readings come
// before On readings.
func sortReadings(readings []Reading) {
	sort.Slice(readings, func(i, j int) bool {
		if readings[i].Type != readings[j].Type {
			return readings[i].Type < readings[j].Type
		}
		return readings[i].Name < readings[j].Name
	})
}

func renderKanaEntry(kana rune, romaji string) string {
	builder := strings.Builder{}
	builder.WriteString("<li><span>")
	builder.WriteString(string(kana))
	builder.WriteString("</span>: <span>")
	builder.WriteString(romaji)
	builder.WriteString("</span></li>")
	return builder.String()
}

func renderReading(reading Reading) string {
	builder := strings.Builder{}
	builder.WriteString("<li><strong>")
	builder.WriteString(reading.Type)
	builder.WriteString(":</strong> ")
	builder.WriteString(reading.Name)
	if reading.Romaji != nil && *reading.Romaji != "" {
		builder.WriteString(" <span>(")
		builder.WriteString(*reading.Romaji)
		builder.WriteString(")</span>")
	}
	builder.WriteString("</li>")
	return builder.String()
}

func renderKanjiEntry(char rune, info *kanjiapi.Response, readings []Reading, options Options) string {
	sortReadings(readings)
	readingsHTML := strings.Builder{}
	for _, reading := range readings {
		readingsHTML.WriteString(renderReading(reading))
	}

	meaningsHTML := ""
	if options.IncludeKanjiMeanings && len(info.Meanings) > 0 {
		meaningsHTML = strings.Join(info.Meanings, ", ")
	}

	builder := strings.Builder{}
	builder.WriteString("<table>\n<tr>\n<th>Kanji</th>\n<td>")
	builder.WriteString(string(char))
	builder.WriteString("</td>\n</tr>\n<tr>\n<th>Readings</th>\n<td>\n<ul>\n")
	builder.WriteString(readingsHTML.String())
	builder.WriteString("\n</ul>\n</td>\n</tr>\n<tr>\n<th>Meanings</th>\n<td>")
	builder.WriteString(meaningsHTML)
	builder.WriteString("</td>\n</tr>\n</table>")
	return builder.String()
}

func renderKanaSection(title string, entries []string) string {
	builder := strings.Builder{}
	builder.WriteString("<h3>")
	builder.WriteString(title)
	builder.WriteString("</h3><ul>")
	builder.WriteString(strings.Join(entries, ""))
	builder.WriteString("</ul>")
	return builder.String()
}

func renderKanjiSection(entries []string) string {
	return "<h3>Kanji</h3>" + strings.Join(entries, "")
}

// Package glossary turns Japanese text into a glossary HTML fragment listing
// every distinct character with its romanization and, for kanji, its
// dictionary entry.
package glossary

import (
	"context"
	"strings"
	"sync"

	"github.com/jukmisael/japanese-glossary-generator/internal/dictionary/kanjiapi"
	"github.com/jukmisael/japanese-glossary-generator/internal/japanese"
)

// Lookup resolves characters against the remote dictionaries. Failed lookups
// surface as nil results.
type Lookup interface {
	Romaji(ctx context.Context, text string) *string
	KanjiInfo(ctx context.Context, char rune) *kanjiapi.Response
}

// Options selects which scripts and details appear in the glossary.
type Options struct {
	IncludeHiragana      bool
	IncludeKatakana      bool
	IncludeKanji         bool
	IncludeRomaji        bool
	IncludeKanjiMeanings bool
}

// Assembler builds glossaries, fanning lookups out over a bounded pool of
// workers. It is stateless between calls and safe for concurrent use.
type Assembler struct {
	lookup  Lookup
	options Options
	workers int
}

// NewAssembler creates an Assembler running at most workers concurrent
// lookups per Generate call.
func NewAssembler(lookup Lookup, options Options, workers int) *Assembler {
	if workers < 1 {
		workers = 1
	}
	return &Assembler{
		lookup:  lookup,
		options: options,
		workers: workers,
	}
}

// lookupResults collects completed lookups. Workers write under mu; rendering
// reads after all workers have finished.
type lookupResults struct {
	mu         sync.Mutex
	kanaRomaji map[rune]*string
	kanjiInfos map[rune]*kanjiapi.Response
	readings   map[rune][]Reading
}

// Generate returns the glossary HTML for text. Sections appear in hiragana,
// katakana, kanji order; entries within a section follow the first appearance
// of each character in the text. Characters whose lookups failed are left
// out, so the result is an empty string when nothing could be resolved.
func (a *Assembler) Generate(ctx context.Context, text string) string {
	chars := japanese.ExtractUnique(text)

	results := &lookupResults{
		kanaRomaji: make(map[rune]*string),
		kanjiInfos: make(map[rune]*kanjiapi.Response),
		readings:   make(map[rune][]Reading),
	}
	semaphore := make(chan struct{}, a.workers)
	wg := &sync.WaitGroup{}

	for _, char := range chars {
		switch japanese.Classify(char) {
		case japanese.ScriptHiragana, japanese.ScriptKatakana:
			if !a.options.IncludeHiragana && !a.options.IncludeKatakana {
				continue
			}
			wg.Add(1)
			go a.lookupKana(ctx, char, results, semaphore, wg)
		case japanese.ScriptKanji:
			if !a.options.IncludeKanji {
				continue
			}
			wg.Add(1)
			go a.lookupKanji(ctx, char, results, semaphore, wg)
		}
	}
	wg.Wait()

	return a.render(chars, results)
}

func (a *Assembler) lookupKana(
	ctx context.Context,
	char rune,
	results *lookupResults,
	semaphore chan struct{},
	wg *sync.WaitGroup,
) {
	defer wg.Done()
	semaphore <- struct{}{}
	romaji := a.lookup.Romaji(ctx, string(char))
	<-semaphore

	results.mu.Lock()
	defer results.mu.Unlock()
	results.kanaRomaji[char] = romaji
}

func (a *Assembler) lookupKanji(
	ctx context.Context,
	char rune,
	results *lookupResults,
	semaphore chan struct{},
	wg *sync.WaitGroup,
) {
	defer wg.Done()
	semaphore <- struct{}{}
	info := a.lookup.KanjiInfo(ctx, char)
	<-semaphore
	if info == nil {
		return
	}

	results.mu.Lock()
	results.kanjiInfos[char] = info
	results.mu.Unlock()

	if !a.options.IncludeRomaji {
		return
	}
	// Romanize each reading. The reading lookups are scheduled before this
	// worker finishes, so the outer Wait covers them.
	for _, group := range []struct {
		readingType string
		readings    []string
	}{
		{"Kun", info.KunReadings},
		{"On", info.OnReadings},
	} {
		for _, reading := range group.readings {
			wg.Add(1)
			go a.lookupReading(ctx, char, group.readingType, reading, results, semaphore, wg)
		}
	}
}

func (a *Assembler) lookupReading(
	ctx context.Context,
	char rune,
	readingType string,
	reading string,
	results *lookupResults,
	semaphore chan struct{},
	wg *sync.WaitGroup,
) {
	defer wg.Done()
	semaphore <- struct{}{}
	romaji := a.lookup.Romaji(ctx, reading)
	<-semaphore

	results.mu.Lock()
	defer results.mu.Unlock()
	results.readings[char] = append(results.readings[char], Reading{
		Type:   readingType,
		Name:   reading,
		Romaji: romaji,
	})
}

func (a *Assembler) render(chars []rune, results *lookupResults) string {
	var hiraganaEntries, katakanaEntries, kanjiEntries []string

	for _, char := range chars {
		switch japanese.Classify(char) {
		case japanese.ScriptHiragana:
			if !a.options.IncludeHiragana {
				continue
			}
			romaji := results.kanaRomaji[char]
			if romaji == nil || *romaji == "" {
				continue
			}
			hiraganaEntries = append(hiraganaEntries, renderKanaEntry(char, *romaji))
		case japanese.ScriptKatakana:
			if !a.options.IncludeKatakana {
				continue
			}
			romaji := results.kanaRomaji[char]
			if romaji == nil || *romaji == "" {
				continue
			}
			katakanaEntries = append(katakanaEntries, renderKanaEntry(char, *romaji))
		case japanese.ScriptKanji:
			if !a.options.IncludeKanji {
				continue
			}
			info := results.kanjiInfos[char]
			if info == nil || !info.HasMeanings() {
				continue
			}
			entry := renderKanjiEntry(char, info, results.readings[char], a.options)
			kanjiEntries = append(kanjiEntries, entry)
		}
	}

	sections := make([]string, 0, 3)
	if len(hiraganaEntries) > 0 {
		sections = append(sections, renderKanaSection("Hiragana", hiraganaEntries))
	}
	if len(katakanaEntries) > 0 {
		sections = append(sections, renderKanaSection("Katakana", katakanaEntries))
	}
	if len(kanjiEntries) > 0 {
		sections = append(sections, renderKanjiSection(kanjiEntries))
	}
	return strings.Join(sections, "")
}

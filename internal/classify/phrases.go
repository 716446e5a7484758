package classify

import "fmt"

// Locale selects a phrase table.
type Locale string

// Supported locales. The locale doubles as the upstream API language code.
const (
	LocaleEnGB Locale = "en-GB"
	LocalePtBR Locale = "pt-BR"
)

// Phrase keys address the locale tables. Keyed lookups, not positional
// indices: a missing entry fails the completeness check instead of silently
// shifting every message after it.
type Phrase int

const (
	PhraseMatchBetween Phrase = iota
	PhraseAboutToStart
	PhraseYellowCard
	PhraseRedCard
	PhraseOwnGoal
	PhrasePenalty
	PhraseGoal
	PhraseMissedPenalty
	PhraseHasStarted
	PhraseHalfTime
	PhraseFullTime
	PhraseHasResumed
	PhraseEndFirstET
	PhraseEndSecondET
	PhraseEndShootout

	phraseCount // sentinel, keep last
)

var phrases = map[Locale]map[Phrase]string{
	LocaleEnGB: {
		PhraseMatchBetween:  "The match between",
		PhraseAboutToStart:  "is about to start",
		PhraseYellowCard:    "Yellow card",
		PhraseRedCard:       "Red card",
		PhraseOwnGoal:       "Own goal",
		PhrasePenalty:       "Penalty",
		PhraseGoal:          "GOOOOAL",
		PhraseMissedPenalty: "Missed penalty",
		PhraseHasStarted:    "has started",
		PhraseHalfTime:      "HALF TIME",
		PhraseFullTime:      "FULL TIME",
		PhraseHasResumed:    "has resumed",
		PhraseEndFirstET:    "END OF 1ST ET",
		PhraseEndSecondET:   "END OF 2ND ET",
		PhraseEndShootout:   "End of penalty shoot-out",
	},
	LocalePtBR: {
		PhraseMatchBetween:  "A partida",
		PhraseAboutToStart:  "vai comecar",
		PhraseYellowCard:    "Cartao amarelo",
		PhraseRedCard:       "Cartao vermelho",
		PhraseOwnGoal:       "Gol contra",
		PhrasePenalty:       "Penalti",
		PhraseGoal:          "GOOOOOOOOLLL",
		PhraseMissedPenalty: "Penalti perdido",
		PhraseHasStarted:    "comecou",
		PhraseHalfTime:      "INTERVALO",
		PhraseFullTime:      "FIM DO SEGUNDO TEMPO",
		PhraseHasResumed:    "recomecou",
		PhraseEndFirstET:    "Intervalo da prorrogacao",
		PhraseEndSecondET:   "Fim da prorrogacao",
		PhraseEndShootout:   "Fim dos penaltis",
	},
}

// SupportedLocales lists the locales with a phrase table.
func SupportedLocales() []Locale {
	locales := make([]Locale, 0, len(phrases))
	for loc := range phrases {
		locales = append(locales, loc)
	}
	return locales
}

// ValidateTable checks that every phrase key has an entry in every supported
// locale. Run at startup and in tests so a new phrase cannot ship half
// translated.
func ValidateTable() error {
	for loc, table := range phrases {
		for p := Phrase(0); p < phraseCount; p++ {
			if _, ok := table[p]; !ok {
				return fmt.Errorf("locale %s is missing phrase %d", loc, p)
			}
		}
	}
	return nil
}

func (c *Classifier) phrase(p Phrase) string {
	return phrases[c.locale][p]
}

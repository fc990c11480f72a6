package presenter

import "github.com/heartmarshall/terminology-bot/internal/domain"

// StartMenu returns the choice groups shown in the start menu.
func (l *Localizer) StartMenu() [][]string {
	return [][]string{
		{l.Label(LabelAddTerm), l.Label(LabelListTerms)},
	}
}

// OptionMenu returns the attribute choices for the selected term.
func (l *Localizer) OptionMenu() [][]string {
	return [][]string{
		{l.Label(LabelPOS), l.Label(LabelDescription)},
		{l.Label(LabelSynonyms), l.Label(LabelSimilars)},
		{l.Label(LabelImage), l.Label(LabelAudio), l.Label(LabelVideo)},
		{l.Label(LabelListTerms), l.Label(LabelCancel)},
	}
}

// POSChoices returns one row with every localized part of speech.
func (l *Localizer) POSChoices() [][]string {
	row := make([]string, len(domain.PartsOfSpeech))
	for i, p := range domain.PartsOfSpeech {
		row[i] = l.POSLabel(p)
	}
	return [][]string{row}
}

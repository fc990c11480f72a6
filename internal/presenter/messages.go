package presenter

// Prompt keys passed to Localizer.T.
const (
	MsgGreeting           = "greeting"
	MsgStartMenu          = "start_menu"
	MsgAskNewTerm         = "ask_new_term"
	MsgTermCreated        = "term_created"
	MsgTermExists         = "term_exists"
	MsgInvalidName        = "invalid_name"
	MsgChooseTerm         = "choose_term"
	MsgEmptyGlossary      = "empty_glossary"
	MsgInvalidIndex       = "invalid_index"
	MsgChooseOption       = "choose_option"
	MsgUnknownOption      = "unknown_option"
	MsgAskPOS             = "ask_pos"
	MsgInvalidPOS         = "invalid_pos"
	MsgAskDescription     = "ask_description"
	MsgInvalidDescription = "invalid_description"
	MsgAskSynonyms        = "ask_synonyms"
	MsgAskSimilars        = "ask_similars"
	MsgNoWords            = "no_words"
	MsgTooManyWords       = "too_many_words"
	MsgLinked             = "linked"
	MsgSkipped            = "skipped"
	MsgClarify            = "clarify"
	MsgInvalidIndices     = "invalid_indices"
	MsgAskMedia           = "ask_media"
	MsgInvalidMedia       = "invalid_media"
	MsgSaved              = "saved"
	MsgNotFound           = "not_found"
	MsgNoCurrentTerm      = "no_current_term"
	MsgRetry              = "retry"
	MsgCancelled          = "cancelled"
	MsgFailure            = "failure"
	MsgUnknownCommand     = "unknown_command"
	MsgWordTooLong        = "word_too_long"
)

// Button label keys passed to Localizer.Label and returned by MatchLabel.
const (
	LabelAddTerm     = "label.add_term"
	LabelListTerms   = "label.list_terms"
	LabelPOS         = "label.pos"
	LabelDescription = "label.description"
	LabelSynonyms    = "label.synonyms"
	LabelSimilars    = "label.similars"
	LabelImage       = "label.image"
	LabelAudio       = "label.audio"
	LabelVideo       = "label.video"
	LabelMenu        = "label.menu"
	LabelCancel      = "label.cancel"
)

// labelKeys is the matching order for MatchLabel.
var labelKeys = []string{
	LabelAddTerm, LabelListTerms,
	LabelPOS, LabelDescription, LabelSynonyms, LabelSimilars,
	LabelImage, LabelAudio, LabelVideo,
	LabelMenu, LabelCancel,
}

// Profile field captions.
const (
	fieldPOS         = "field.pos"
	fieldDescription = "field.description"
	fieldSynonyms    = "field.synonyms"
	fieldSimilars    = "field.similars"
	fieldMedia       = "field.media"
	fieldNotSet      = "field.not_set"
)

func posKey(p string) string   { return "pos." + p }
func mediaKey(k string) string { return "media." + k }

var english = map[string]string{
	MsgGreeting:           "Hello! I help you build a glossary of terms. What would you like to do?",
	MsgStartMenu:          "What would you like to do next?",
	MsgAskNewTerm:         "Send the name of the new term.",
	MsgTermCreated:        "Term %q added.",
	MsgTermExists:         "Term %q already exists.",
	MsgInvalidName:        "The term name must not be empty.",
	MsgChooseTerm:         "Choose a term by sending its number:",
	MsgEmptyGlossary:      "The glossary is empty. Add a term first.",
	MsgInvalidIndex:       "Send a number from 1 to %d.",
	MsgChooseOption:       "What would you like to set for this term?",
	MsgUnknownOption:      "Please choose one of the options below.",
	MsgAskPOS:             "Choose the part of speech.",
	MsgInvalidPOS:         "Part of speech must be one of: %s.",
	MsgAskDescription:     "Send the description.",
	MsgInvalidDescription: "The description must not be empty and must fit in %d characters.",
	MsgAskSynonyms:        "Send synonyms separated by commas.",
	MsgAskSimilars:        "Send similar words separated by commas.",
	MsgNoWords:            "Send at least one word.",
	MsgTooManyWords:       "Send at most %d words at once.",
	MsgLinked:             "Linked: %s.",
	MsgSkipped:            "Skipped, a term cannot be related to itself: %s.",
	MsgClarify:            "Several terms share these names. Send the numbers of the ones you mean, separated by commas:",
	MsgInvalidIndices:     "Send numbers from 1 to %d separated by commas.",
	MsgAskMedia:           "Send the %s.",
	MsgInvalidMedia:       "Please send the %s as an attachment.",
	MsgSaved:              "Saved.",
	MsgNotFound:           "Sorry, that term no longer exists. Please choose another one.",
	MsgNoCurrentTerm:      "Choose a term first.",
	MsgRetry:              "Storage is temporarily unavailable. Please try again.",
	MsgCancelled:          "Bye! Send any message to start again.",
	MsgFailure:            "Something went wrong. Please try again later.",
	MsgUnknownCommand:     "Unknown command. Available commands: /start, /terms, /menu, /cancel.",
	MsgWordTooLong:        "Each word must fit in %d characters.",

	LabelAddTerm:     "Add new term",
	LabelListTerms:   "List terms",
	LabelPOS:         "Part of speech",
	LabelDescription: "Description",
	LabelSynonyms:    "Synonyms",
	LabelSimilars:    "Similar words",
	LabelImage:       "Image",
	LabelAudio:       "Audio",
	LabelVideo:       "Video",
	LabelMenu:        "Menu",
	LabelCancel:      "Cancel",

	fieldPOS:         "Part of speech",
	fieldDescription: "Description",
	fieldSynonyms:    "Synonyms",
	fieldSimilars:    "Similar words",
	fieldMedia:       "Media",
	fieldNotSet:      "not set",

	posKey("noun"):      "noun",
	posKey("verb"):      "verb",
	posKey("adjective"): "adjective",

	mediaKey("image"): "image",
	mediaKey("audio"): "audio file",
	mediaKey("video"): "video",
}

var russian = map[string]string{
	MsgGreeting:           "Привет! Я помогаю составлять глоссарий терминов. Что будем делать?",
	MsgStartMenu:          "Что делаем дальше?",
	MsgAskNewTerm:         "Отправьте название нового термина.",
	MsgTermCreated:        "Термин %q добавлен.",
	MsgTermExists:         "Термин %q уже существует.",
	MsgInvalidName:        "Название термина не может быть пустым.",
	MsgChooseTerm:         "Выберите термин, отправив его номер:",
	MsgEmptyGlossary:      "Глоссарий пуст. Сначала добавьте термин.",
	MsgInvalidIndex:       "Отправьте число от 1 до %d.",
	MsgChooseOption:       "Что заполнить для этого термина?",
	MsgUnknownOption:      "Пожалуйста, выберите один из вариантов ниже.",
	MsgAskPOS:             "Выберите часть речи.",
	MsgInvalidPOS:         "Часть речи должна быть одной из: %s.",
	MsgAskDescription:     "Отправьте описание.",
	MsgInvalidDescription: "Описание не может быть пустым и должно укладываться в %d символов.",
	MsgAskSynonyms:        "Отправьте синонимы через запятую.",
	MsgAskSimilars:        "Отправьте похожие слова через запятую.",
	MsgNoWords:            "Отправьте хотя бы одно слово.",
	MsgTooManyWords:       "Отправьте не больше %d слов за раз.",
	MsgLinked:             "Связано: %s.",
	MsgSkipped:            "Пропущено, термин не может быть связан сам с собой: %s.",
	MsgClarify:            "Несколько терминов называются одинаково. Отправьте номера нужных через запятую:",
	MsgInvalidIndices:     "Отправьте числа от 1 до %d через запятую.",
	MsgAskMedia:           "Отправьте %s.",
	MsgInvalidMedia:       "Пожалуйста, отправьте %s вложением.",
	MsgSaved:              "Сохранено.",
	MsgNotFound:           "Извините, этого термина больше нет. Выберите другой.",
	MsgNoCurrentTerm:      "Сначала выберите термин.",
	MsgRetry:              "Хранилище временно недоступно. Попробуйте ещё раз.",
	MsgCancelled:          "Пока! Отправьте любое сообщение, чтобы начать заново.",
	MsgFailure:            "Что-то пошло не так. Попробуйте позже.",
	MsgUnknownCommand:     "Неизвестная команда. Доступные команды: /start, /terms, /menu, /cancel.",
	MsgWordTooLong:        "Каждое слово должно укладываться в %d символов.",

	LabelAddTerm:     "Добавить термин",
	LabelListTerms:   "Список терминов",
	LabelPOS:         "Часть речи",
	LabelDescription: "Описание",
	LabelSynonyms:    "Синонимы",
	LabelSimilars:    "Похожие слова",
	LabelImage:       "Изображение",
	LabelAudio:       "Аудио",
	LabelVideo:       "Видео",
	LabelMenu:        "Меню",
	LabelCancel:      "Отмена",

	fieldPOS:         "Часть речи",
	fieldDescription: "Описание",
	fieldSynonyms:    "Синонимы",
	fieldSimilars:    "Похожие слова",
	fieldMedia:       "Медиа",
	fieldNotSet:      "не указано",

	posKey("noun"):      "существительное",
	posKey("verb"):      "глагол",
	posKey("adjective"): "прилагательное",

	mediaKey("image"): "изображение",
	mediaKey("audio"): "аудиофайл",
	mediaKey("video"): "видео",
}

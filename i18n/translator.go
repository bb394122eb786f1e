package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "name" or "key"), referenced as {name} placeholders.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":  "unsupported value type",
		"unresolved":    "{name} could not be resolved",
		"parse_error":   "malformed JSON value",
		"missing_key":   "property {key} is missing",
		"empty_args":    "operation called without arguments",
		"not_callable":  "{name} is registered but not callable",
		"wrong_service": "{name} does not provide {want}",
		"unsupported":   "{op} cannot run on split elements",
		"duplicate_key": "key {key} is duplicated",
	},
	"fr": {
		"invalid_type":  "type de valeur non supporté",
		"unresolved":    "{name} est introuvable",
		"parse_error":   "valeur JSON mal formée",
		"missing_key":   "la propriété {key} est absente",
		"empty_args":    "opération appelée sans argument",
		"not_callable":  "{name} est enregistré mais n'est pas appelable",
		"wrong_service": "{name} ne fournit pas {want}",
		"unsupported":   "{op} ne peut pas s'appliquer aux éléments découpés",
		"duplicate_key": "la clé {key} est dupliquée",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"fr").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	SetTranslator(dictTranslator{lang: lang})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}

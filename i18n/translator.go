package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "path" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg := t.lookup(code)
	if msg == "" {
		return code
	}
	if p := data["path"]; p != "" {
		return msg + " (" + p + ")"
	}
	return msg
}

func (t dictTranslator) lookup(code string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			return "型を解決できません"
		case "invalid_fragment":
			return "スキーマ断片が不正です"
		case "ambiguous_ref":
			return "$ref と構造キーワードが混在しています"
		case "duplicate_node":
			return "ノード識別子が重複しています"
		case "duplicate_key":
			return "キーが重複しています"
		case "parse_error":
			return "解析エラー"
		case "invalid_annotation":
			return "差分注釈が不正です"
		case "unresolved_ref":
			return "参照先が見つかりません"
		case "cyclic_ref":
			return "循環参照です"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			return "cannot resolve schema type"
		case "invalid_fragment":
			return "invalid schema fragment"
		case "ambiguous_ref":
			return "$ref mixed with structural keywords"
		case "duplicate_node":
			return "duplicate node identifier"
		case "duplicate_key":
			return "duplicate key"
		case "parse_error":
			return "parse error"
		case "invalid_annotation":
			return "invalid change annotation"
		case "unresolved_ref":
			return "unresolved reference"
		case "cyclic_ref":
			return "cyclic reference"
		}
	}
	return ""
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

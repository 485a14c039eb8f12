package prompt

import (
	"fmt"
	"strings"

	"github.com/dohr-michael/quickprompt/internal/texts"
)

// State is the prompt button state.
type State string

const (
	StateGenerate         State = "generate"
	StateGenerating       State = "generating"
	StateRevise           State = "revise"
	StateReviseGenerating State = "reviseGenerating"
)

// Label is the text shown on the button in this state.
func (s State) Label() string {
	switch s {
	case StateGenerating, StateReviseGenerating:
		return "Stop Generating"
	case StateRevise:
		return "Revise"
	default:
		return "Generate"
	}
}

// Generating reports whether the button currently acts as a stop button.
func (s State) Generating() bool {
	return s == StateGenerating || s == StateReviseGenerating
}

// Validity is the indicator on the output field.
type Validity string

const (
	ValidityNone    Validity = "none"
	ValiditySuccess Validity = "success"
	ValidityError   Validity = "error"
)

// MenuItem is one entry of the revise menu, identified by its label.
type MenuItem string

const (
	ItemRegenerate    MenuItem = "Regenerate"
	ItemBulleted      MenuItem = "Make Bulleted List"
	ItemClearError    MenuItem = "Clear Error"
	ItemFixSpelling   MenuItem = "Fix Spelling and Grammar"
	ItemGenerateError MenuItem = "Generate Error"
	ItemSimplify      MenuItem = "Simplify"
	ItemExpand        MenuItem = "Expand"
	ItemRephrase      MenuItem = "Rephrase"
	ItemSummarize     MenuItem = "Summarize"
	ItemBulgarian     MenuItem = "Bulgarian"
	ItemEnglish       MenuItem = "English"
	ItemGerman        MenuItem = "German"
)

// MenuItems is the fixed menu, in display order.
var MenuItems = []MenuItem{
	ItemRegenerate,
	ItemBulleted,
	ItemClearError,
	ItemFixSpelling,
	ItemGenerateError,
	ItemSimplify,
	ItemExpand,
	ItemRephrase,
	ItemSummarize,
	ItemBulgarian,
	ItemEnglish,
	ItemGerman,
}

// ParseMenuItem matches a label case-insensitively.
func ParseMenuItem(s string) (MenuItem, error) {
	s = strings.TrimSpace(s)
	for _, item := range MenuItems {
		if strings.EqualFold(string(item), s) {
			return item, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownItem, s)
}

// variant returns the text variant a revision item reveals.
func (m MenuItem) variant() (texts.Variant, bool) {
	switch m {
	case ItemBulleted:
		return texts.VariantBulleted, true
	case ItemSimplify:
		return texts.VariantSimplified, true
	case ItemExpand:
		return texts.VariantExpanded, true
	case ItemRephrase:
		return texts.VariantRephrased, true
	case ItemSummarize:
		return texts.VariantSummarized, true
	default:
		return "", false
	}
}

// language returns the language a translation item switches to.
func (m MenuItem) language() (texts.Language, bool) {
	switch m {
	case ItemBulgarian:
		return texts.LanguageBulgarian, true
	case ItemEnglish:
		return texts.LanguageEnglish, true
	case ItemGerman:
		return texts.LanguageGerman, true
	default:
		return "", false
	}
}

// View is the full view model of a session.
type View struct {
	State         State          `json:"state"`
	Label         string         `json:"label"`
	Language      texts.Language `json:"language"`
	TopicKey      string         `json:"topic_key,omitempty"`
	Output        string         `json:"output"`
	Validity      Validity       `json:"validity"`
	Busy          bool           `json:"busy"`
	OutputEnabled bool           `json:"output_enabled"`
	SendEnabled   bool           `json:"send_enabled"`
	MenuOpen      bool           `json:"menu_open"`
	DialogOpen    bool           `json:"dialog_open"`
	Revealed      int            `json:"revealed"`
	Total         int            `json:"total"`
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"

	"github.com/dohr-michael/quickprompt/internal/prompt"
)

// helpStyleConfig is a small glamour style matching the palette.
func helpStyleConfig() ansi.StyleConfig {
	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: stringPtr(ColorText)},
			Margin:         uintPtr(0),
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: stringPtr(ColorPrimary), Bold: boolPtr(true)},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: stringPtr(ColorPrimary), Bold: boolPtr(true)},
		},
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: stringPtr(ColorSecondary), Bold: boolPtr(true), Prefix: "› "},
		},
		List: ansi.StyleList{
			LevelIndent: 2,
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: stringPtr(ColorText)},
			},
		},
		Item: ansi.StylePrimitive{BlockPrefix: "• "},
		Strong: ansi.StylePrimitive{
			Bold:  boolPtr(true),
			Color: stringPtr(ColorTextBright),
		},
		Emph: ansi.StylePrimitive{Italic: boolPtr(true)},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:           stringPtr(ColorWarning),
				BackgroundColor: stringPtr(ColorBackground),
				Prefix:          " ",
				Suffix:          " ",
			},
		},
		Table: ansi.StyleTable{
			CenterSeparator: stringPtr("┼"),
			ColumnSeparator: stringPtr("│"),
			RowSeparator:    stringPtr("─"),
		},
	}
}

func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
func uintPtr(u uint) *uint       { return &u }

// HelpMarkdown is the help overlay source.
func HelpMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# quickprompt\n\n")
	sb.WriteString("A single button generates text by revealing a predefined string, ")
	sb.WriteString("then offers canned revisions.\n\n")
	sb.WriteString("## Button\n\n")
	sb.WriteString("| state | label | press |\n|---|---|---|\n")
	for _, row := range [][3]string{
		{string(prompt.StateGenerate), prompt.StateGenerate.Label(), "pick a topic and reveal it"},
		{string(prompt.StateGenerating), prompt.StateGenerating.Label(), "stop, keep the text so far"},
		{string(prompt.StateRevise), prompt.StateRevise.Label(), "open the menu"},
		{string(prompt.StateReviseGenerating), prompt.StateReviseGenerating.Label(), "stop the revision"},
	} {
		fmt.Fprintf(&sb, "| `%s` | %s | %s |\n", row[0], row[1], row[2])
	}
	sb.WriteString("\n## Menu\n\n")
	for _, item := range prompt.MenuItems {
		fmt.Fprintf(&sb, "- **%s**\n", item)
	}
	sb.WriteString("\n## Keys\n\n")
	sb.WriteString("- `enter` press the button, choose a menu item, confirm the dialog\n")
	sb.WriteString("- `ctrl+s` send the text\n")
	sb.WriteString("- `esc` close the menu or cancel the dialog\n")
	sb.WriteString("- `?` toggle this help, `q` quit\n")
	return sb.String()
}

// RenderMarkdown renders markdown content to styled terminal output.
// If rendering fails, returns the original content.
func RenderMarkdown(content string, width int) string {
	if content == "" {
		return ""
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(helpStyleConfig()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}

	// Trim trailing newlines that glamour adds
	return strings.TrimRight(rendered, "\n")
}

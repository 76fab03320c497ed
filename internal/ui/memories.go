package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type Objective struct {
	Label          string `json:"label"`
	ContentCredits string `json:"content_credits"`
	Content        string `json:"content"`
	ContentColor   string `json:"content_color"`
}

type Clue struct {
	Text string `json:"text"`
}

type ClueCategory struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Clues []Clue `json:"clues"`
}

// Memories is the research data shown next to the canvas.
type Memories struct {
	ResearchCredits int            `json:"research_credits"`
	Clearance       string         `json:"clearance"`
	Objectives      []Objective    `json:"objectives"`
	ClueCategories  []ClueCategory `json:"clue_categories"`
}

func DecodeMemories(r io.Reader) (*Memories, error) {
	var m Memories
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode memories: %w", err)
	}
	return &m, nil
}

func LoadMemories(path string) (*Memories, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open memories: %w", err)
	}
	defer f.Close()
	return DecodeMemories(f)
}

// TabTitle labels a clue category tab, with its clue count when non-empty.
func (c ClueCategory) TabTitle() string {
	if len(c.Clues) == 0 {
		return c.Name
	}
	return fmt.Sprintf("%s (%d)", c.Name, len(c.Clues))
}

// NewMemoriesPanel renders m read-only.
func NewMemoriesPanel(m *Memories) fyne.CanvasObject {
	header := widget.NewCard("Clearance: "+m.Clearance, "",
		widget.NewLabel(fmt.Sprintf("Research Credits: %d", m.ResearchCredits)))

	objectives := container.NewVBox()
	for _, o := range m.Objectives {
		objectives.Add(newObjectiveRow(o))
	}

	tabs := container.NewAppTabs()
	for _, cat := range m.ClueCategories {
		clues := container.NewVBox()
		for _, c := range cat.Clues {
			l := widget.NewLabel(c.Text)
			l.Wrapping = fyne.TextWrapWord
			clues.Add(l)
		}
		tabs.Append(container.NewTabItemWithIcon(cat.TabTitle(), theme.InfoIcon(), container.NewVScroll(clues)))
	}

	return container.NewBorder(
		container.NewVBox(header, widget.NewCard("Objectives", "", objectives)),
		nil, nil, nil,
		widget.NewCard("Clues", "", tabs),
	)
}

func newObjectiveRow(o Objective) fyne.CanvasObject {
	content := widget.NewRichText(&widget.TextSegment{
		Text:  o.Content,
		Style: widget.RichTextStyle{ColorName: objectiveColor(o.ContentColor), Inline: true},
	})
	return container.NewHBox(
		widget.NewLabelWithStyle(o.Label, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		content,
		widget.NewLabel(o.ContentCredits),
	)
}

// objectiveColor maps the backend's color hint onto a theme color.
func objectiveColor(hint string) fyne.ThemeColorName {
	switch hint {
	case "good", "green":
		return theme.ColorNameSuccess
	case "bad", "red":
		return theme.ColorNameError
	case "average", "yellow", "orange":
		return theme.ColorNameWarning
	}
	return theme.ColorNameForeground
}

package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText wraps plain text to the given display width, breaking on
// spaces. Words wider than the width are split hard.
func wrapText(text string, width int) string {
	if width < 1 {
		return text
	}
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		out = append(out, wrapParagraph(paragraph, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapParagraph(paragraph string, width int) []string {
	words := strings.Fields(paragraph)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	var current string
	currentWidth := 0
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)
		if wordWidth > width {
			if current != "" {
				lines = append(lines, current)
				current = ""
				currentWidth = 0
			}
			lines = append(lines, splitWord(word, width)...)
			last := lines[len(lines)-1]
			lines = lines[:len(lines)-1]
			current = last
			currentWidth = runewidth.StringWidth(last)
			continue
		}
		if current == "" {
			current = word
			currentWidth = wordWidth
			continue
		}
		if currentWidth+1+wordWidth > width {
			lines = append(lines, current)
			current = word
			currentWidth = wordWidth
			continue
		}
		current += " " + word
		currentWidth += 1 + wordWidth
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func splitWord(word string, width int) []string {
	var lines []string
	var current strings.Builder
	currentWidth := 0
	for _, r := range word {
		rw := runewidth.RuneWidth(r)
		if currentWidth+rw > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
		}
		current.WriteRune(r)
		currentWidth += rw
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

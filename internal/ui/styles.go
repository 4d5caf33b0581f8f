package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Lipgloss Styles
var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	blackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	goldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle = lipgloss.NewStyle().MarginTop(1)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	turnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// suitSymbols 花色渲染符号
var suitSymbols = map[string]string{
	"CLUBS":    "♣",
	"DIAMONDS": "♦",
	"HEARTS":   "♥",
	"SPADES":   "♠",
	"JOKER":    "★",
}

// redSuits 红色花色
var redSuits = map[string]bool{
	"DIAMONDS": true,
	"HEARTS":   true,
}

// rankLabels 点数渲染符号
var rankLabels = map[int]string{
	0:  "JK",
	1:  "A",
	11: "J",
	12: "Q",
	13: "K",
}

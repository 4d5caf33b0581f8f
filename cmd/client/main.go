package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/usef/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1791", "服务器地址")
	deckType := flag.String("deck", "STANDARD", "开局牌组（STANDARD 或 JOKERS），仅房主生效")
	flag.Parse()

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)

	model := ui.NewModel(serverURL, *deckType)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}

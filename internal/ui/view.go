package ui

import (
	"fmt"
	"strings"
)

func (m *Model) View() string {
	var b strings.Builder

	switch m.phase {
	case PhaseConnecting:
		b.WriteString(titleStyle("Usef"))
		b.WriteString("\n\n正在连接服务器...")

	case PhaseName:
		b.WriteString(titleStyle("Usef"))
		b.WriteString("\n\n请输入昵称:\n")
		b.WriteString(m.input.View())
		b.WriteString(promptStyle.Render("\n回车确认"))

	case PhaseMenu:
		b.WriteString(titleStyle("Usef"))
		b.WriteString(fmt.Sprintf("\n\n你好，%s！\n\n", m.playerName))
		b.WriteString("  [c] 创建大厅\n")
		b.WriteString("  [j] 凭邀请码加入\n")
		b.WriteString("  [q] 退出\n")

	case PhaseJoinCode:
		b.WriteString(titleStyle("加入大厅"))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())
		b.WriteString(promptStyle.Render("\n回车确认，Esc 返回"))

	case PhaseLobby:
		b.WriteString(m.viewLobby())

	case PhasePlaying:
		b.WriteString(m.viewGame())

	case PhaseRoundEnd:
		b.WriteString(m.viewRoundEnd())

	case PhaseGameOver:
		b.WriteString(m.viewGameOver())

	case PhaseLeaderboard:
		b.WriteString(m.viewLeaderboard())
	}

	if m.error != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("⚠ " + m.error))
	}

	return docStyle.Render(b.String())
}

// viewLobby 等待开局界面
func (m *Model) viewLobby() string {
	if m.lobby == nil {
		return "加载中..."
	}

	var b strings.Builder
	b.WriteString(titleStyle("大厅"))
	b.WriteString("\n\n邀请码: ")
	b.WriteString(goldStyle.Render(m.lobby.InviteCode))
	b.WriteString("\n\n成员:\n")
	for _, member := range m.lobby.Members {
		marker := "  "
		if member.ID == m.lobby.HostID {
			marker = "👑"
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", marker, member.Name))
	}
	b.WriteString(promptStyle.Render("\n[s] 开始游戏（房主）  [q] 离开"))
	return b.String()
}

// renderCard 渲染一张牌
func renderCard(suit string, rank int, selected bool) string {
	label, ok := rankLabels[rank]
	if !ok {
		label = fmt.Sprintf("%d", rank)
	}
	text := fmt.Sprintf(" %s%s ", suitSymbols[suit], label)

	style := blackStyle
	if redSuits[suit] {
		style = redStyle
	}
	rendered := style.Render(text)
	if selected {
		return "▶" + rendered + "◀"
	}
	return " " + rendered + " "
}

// viewGame 对局界面
func (m *Model) viewGame() string {
	if m.snapshot == nil {
		return "等待开局..."
	}
	snap := m.snapshot

	var b strings.Builder
	b.WriteString(titleStyle(fmt.Sprintf("第 %d 轮", snap.Round)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  罚分上限 %d\n\n", snap.ScoreLimit)))

	// 其他玩家
	for _, p := range snap.Players {
		if p.ID == m.client.UserID {
			continue
		}
		line := fmt.Sprintf("%s  %d 张牌  罚分 %d", p.Name, p.CardsCount, p.Score)
		if !p.Online {
			line += dimStyle.Render("（离线）")
		}
		if p.ID == snap.CurrentTurn {
			line = turnStyle.Render("● " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	// 牌堆
	b.WriteString(fmt.Sprintf("\n牌堆 %d 张", snap.DeckCount))
	if snap.DiscardTop != nil {
		b.WriteString("  弃牌堆顶 ")
		b.WriteString(renderCard(snap.DiscardTop.Suit, snap.DiscardTop.Rank, false))
		b.WriteString(fmt.Sprintf("（%d 张）", snap.DiscardCount))
	}
	b.WriteString("\n\n")

	// 自己的手牌
	myTurn := snap.CurrentTurn == m.client.UserID
	if myTurn {
		b.WriteString(turnStyle.Render("轮到你了！"))
	} else {
		b.WriteString(dimStyle.Render("等待其他玩家..."))
	}
	b.WriteString("\n")

	handTotal := 0
	var cards []string
	for i, c := range snap.Hand {
		cards = append(cards, renderCard(c.Suit, c.Rank, myTurn && i == m.selected))
		handTotal += c.Value
	}
	b.WriteString(boxStyle.Render(strings.Join(cards, " ")))
	b.WriteString(dimStyle.Render(fmt.Sprintf("\n手牌合计 %d 点", handTotal)))

	myScore := 0
	for _, p := range snap.Players {
		if p.ID == m.client.UserID {
			myScore = p.Score
		}
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  累计罚分 %d", myScore)))

	if myTurn {
		b.WriteString(promptStyle.Render("\n←/→ 选牌  [d] 摸牌堆弃所选  [f] 摸弃牌堆弃所选  [u] 喊 Usef"))
	}
	b.WriteString(promptStyle.Render("\n[q] 离开对局"))
	return b.String()
}

// viewRoundEnd 本轮结算界面
func (m *Model) viewRoundEnd() string {
	if m.lastRound == nil {
		return m.viewGame()
	}
	r := m.lastRound

	var b strings.Builder
	if r.CallerWon {
		b.WriteString(titleStyle("喊牌成功！"))
	} else {
		b.WriteString(titleStyle("喊牌失败"))
	}
	b.WriteString("\n\n")
	for _, s := range r.Scores {
		marker := "  "
		if s.PlayerID == r.CallerID {
			marker = "🃏"
		}
		b.WriteString(fmt.Sprintf("%s %-12s 手牌 %2d 点  本轮 +%d  累计 %d\n",
			marker, s.PlayerName, s.HandTotal, s.RoundPoints, s.TotalScore))
	}
	b.WriteString(promptStyle.Render("\n回车进入下一轮"))
	return b.String()
}

// viewGameOver 整局结束界面
func (m *Model) viewGameOver() string {
	var b strings.Builder
	b.WriteString(titleStyle("游戏结束"))
	b.WriteString("\n\n")

	if m.lastRound != nil {
		for _, s := range m.lastRound.Scores {
			marker := "  "
			if s.PlayerID == m.lastRound.WinnerID {
				marker = "🏆"
			}
			b.WriteString(fmt.Sprintf("%s %-12s 累计罚分 %d\n", marker, s.PlayerName, s.TotalScore))
		}
	}
	b.WriteString(promptStyle.Render("\n[l] 排行榜  [q] 退出"))
	return b.String()
}

// viewLeaderboard 排行榜界面
func (m *Model) viewLeaderboard() string {
	var b strings.Builder
	b.WriteString(titleStyle("排行榜"))
	b.WriteString("\n\n")
	if len(m.leaderboard) == 0 {
		b.WriteString(dimStyle.Render("暂无数据"))
	}
	for _, e := range m.leaderboard {
		b.WriteString(fmt.Sprintf("%2d. %-12s 赢 %d 轮  胜率 %.0f%%\n",
			e.Rank, e.PlayerName, e.RoundsWon, e.WinRate*100))
	}
	b.WriteString(promptStyle.Render("\n[q] 返回"))
	return b.String()
}

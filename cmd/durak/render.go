package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"durak/internal/app"
	"durak/internal/domain"
)

var styles = struct {
	red, black, trump, notice, warn, header, dim *color.Color
}{
	red:    color.New(color.FgRed, color.Bold),
	black:  color.New(color.FgHiWhite, color.Bold),
	trump:  color.New(color.FgYellow, color.Bold),
	notice: color.New(color.FgCyan, color.Bold),
	warn:   color.New(color.FgHiYellow),
	header: color.New(color.FgWhite, color.Bold),
	dim:    color.New(color.FgHiBlack),
}

func cardText(c domain.Card) string {
	s := c.Rank.String() + c.Suit.Symbol()
	if c.IsRed() {
		return styles.red.Sprint(s)
	}
	return styles.black.Sprint(s)
}

func printMenu(w io.Writer, stats app.Stats, saved bool) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, styles.header.Sprint("DURAK"))
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Rank", "Score", "Wins", "Losses"})
	t.AppendRow(table.Row{stats.Rank(), stats.Score, stats.Wins, stats.Losses})
	t.SetStyle(table.StyleLight)
	t.Render()

	commands := "new | settings [name value] | quit"
	if saved {
		commands = "continue | " + commands
	}
	fmt.Fprintln(w, styles.dim.Sprint(commands))
}

func printSettings(w io.Writer, s app.Settings) {
	sound := "off"
	if s.Sound {
		sound = "on"
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Setting", "Value", "Options"})
	t.AppendRows([]table.Row{
		{"bots", s.BotCount, fmt.Sprintf("%d-%d", app.MinBots, app.MaxBots)},
		{"mode", s.Mode, "normal, transfer"},
		{"difficulty", s.Difficulty, "easy, medium, hard"},
		{"sound", sound, "on, off"},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func printHelp(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Command", "Alias", "Description"})
	t.AppendRows([]table.Row{
		{"<n>", "", "Play card n from your hand"},
		{"select <n>", "s", "Select card n"},
		{"<enter>", "m", "Press the main button"},
		{"take / pass / beaten / done", "t, p, b, d", "Press the second button"},
		{"quit", "q", "Leave the game"},
	})
	t.SetStyle(table.StyleLight)
	t.Render()
}

func printView(w io.Writer, v app.View) {
	fmt.Fprintln(w)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Seat", "Player", "Cards", "Role"})
	for _, o := range v.Opponents {
		name := o.Name
		if o.Active {
			name = styles.notice.Sprint(name)
		}
		t.AppendRow(table.Row{o.Slot, name, o.Cards, role(o.Out, o.Attacker, o.Defender)})
	}
	t.AppendFooter(table.Row{
		"deck", v.DeckSize,
		"trump", styles.trump.Sprint(v.TrumpSuit) + " " + cardText(v.Trump),
	})
	t.SetStyle(table.StyleLight)
	t.Render()

	var pairs []string
	for _, p := range v.Table {
		s := cardText(p.Attack)
		if p.Defend != nil {
			s += "/" + cardText(*p.Defend)
		}
		pairs = append(pairs, s)
	}
	if len(pairs) == 0 {
		pairs = append(pairs, styles.dim.Sprint("empty"))
	}
	fmt.Fprintf(w, "Table: %s\n", strings.Join(pairs, "  "))

	hand := make([]string, 0, len(v.Hand))
	for i, c := range v.Hand {
		s := fmt.Sprintf("%d:%s", i+1, cardText(c.Card))
		if c.Selected {
			s = "[" + s + "]"
		} else if !c.Playable {
			s = styles.dim.Sprint(fmt.Sprintf("%d:", i+1)) + cardText(c.Card)
		}
		hand = append(hand, s)
	}
	fmt.Fprintf(w, "Hand:  %s\n", strings.Join(hand, " "))
	fmt.Fprintf(w, "%s  %s\n", button(v.Main), button(v.Secondary))
}

func role(out, attacker, defender bool) string {
	switch {
	case out:
		return "out"
	case attacker:
		return "attacks"
	case defender:
		return "defends"
	}
	return ""
}

func button(b app.Button) string {
	if !b.Visible {
		return ""
	}
	if !b.Enabled {
		return styles.dim.Sprintf("( %s )", b.Label)
	}
	return styles.header.Sprintf("[ %s ]", b.Label)
}

func promptFor(v app.View) string {
	if v.Defender == domain.HumanID {
		return "defend> "
	}
	if v.Attacker == domain.HumanID {
		return "attack> "
	}
	return "toss> "
}

// printEvents narrates events. Await-input events are skipped: the view is
// printed before every prompt.
func printEvents(w io.Writer, g *domain.Game, events []app.Event) {
	for _, ev := range events {
		if line := describe(g, ev); line != "" {
			fmt.Fprintln(w, line)
		}
	}
}

func seatName(g *domain.Game, seat int) string {
	if g == nil || seat < 0 || seat >= len(g.Players) {
		return fmt.Sprintf("seat %d", seat)
	}
	return g.Players[seat].Name
}

func describe(g *domain.Game, ev app.Event) string {
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload:
		return styles.header.Sprintf("New %s game against %s. Trump is ", p.Mode, strings.Join(p.Players[1:], ", ")) + cardText(p.Trump)
	case app.CardPlayedPayload:
		verb := "attacks with"
		if p.Kind == domain.MoveDefend {
			verb = "beats with"
		}
		return fmt.Sprintf("%s %s %s", seatName(g, p.Seat), verb, cardText(p.Card))
	case app.TransferredPayload:
		return fmt.Sprintf("%s transfers with %s to %s", seatName(g, p.Seat), cardText(p.Card), seatName(g, p.Defender))
	case app.TakingPayload:
		return fmt.Sprintf("%s takes", seatName(g, p.Seat))
	case app.PassedPayload:
		return styles.dim.Sprintf("%s passes", seatName(g, p.Seat))
	case app.BoutEndedPayload:
		return styles.dim.Sprintf("Bout over (%s), %d cards in the deck", p.Result, p.DeckSize)
	case app.PlayerOutPayload:
		return fmt.Sprintf("%s is out", p.Name)
	case app.GameEndedPayload:
		return styles.header.Sprintf("Game over. Score %d, rank %s", p.Stats.Score, p.Stats.Rank())
	case app.IllegalMovePayload:
		log.Debugf("Illegal move by seat %d: %s", p.Seat, p.Reason)
	case app.NoticePayload:
		return styles.notice.Sprint(p.Text)
	}
	return ""
}

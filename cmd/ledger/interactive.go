package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ledger "github.com/wippyai/wasm-ledger"
	"github.com/wippyai/wasm-ledger/client"
	"github.com/wippyai/wasm-ledger/contract"
	"github.com/wippyai/wasm-ledger/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	balanceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxHistory bounds the console scrollback.
const maxHistory = 12

type consoleModel struct {
	peer     *ledger.Peer
	client   *client.Client
	account  model.AccountName
	input    textinput.Model
	history  []historyLine
	accounts []model.Account
	err      error
}

type historyLine struct {
	err  error
	text string
}

type resultMsg struct {
	err  error
	text string
}

func newConsoleModel(peer *ledger.Peer, account model.AccountName) *consoleModel {
	ti := textinput.New()
	ti.Placeholder = "mint 5 | burn 1 | run balance-keeper | query | as bob"
	ti.Prompt = "> "
	ti.Width = 60
	ti.Focus()

	m := &consoleModel{
		peer:    peer,
		client:  client.New(peer),
		account: account,
		input:   ti,
	}
	m.refresh()
	return m
}

func (m *consoleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			if line == "quit" || line == "q" {
				return m, tea.Quit
			}
			return m, m.command(line)
		}

	case resultMsg:
		m.history = append(m.history, historyLine{err: msg.err, text: msg.text})
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *consoleModel) refresh() {
	m.accounts, m.err = m.peer.WSV().Accounts()
}

// command parses one console line into a tea.Cmd. Switching the acting
// account happens immediately; everything else runs as a transaction or query.
func (m *consoleModel) command(line string) tea.Cmd {
	fields := strings.Fields(line)
	verb, args := fields[0], fields[1:]

	if verb == "as" {
		if len(args) != 1 {
			return reply(fmt.Errorf("usage: as <account>"))
		}
		m.account = model.AccountName(args[0])
		return reply(nil, "acting as "+args[0])
	}

	account := m.account
	switch verb {
	case "mint", "burn":
		if len(args) < 1 || len(args) > 2 {
			return reply(fmt.Errorf("usage: %s <amount> [account]", verb))
		}
		amount, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return reply(fmt.Errorf("amount: %w", err))
		}
		target := account
		if len(args) == 2 {
			target = model.AccountName(args[1])
		}
		var instr model.Instruction = model.Mint{Amount: uint32(amount), Account: target}
		if verb == "burn" {
			instr = model.Burn{Amount: uint32(amount), Account: target}
		}
		return m.submit(ledger.WithInstruction(instr, account))

	case "run":
		if len(args) != 1 {
			return reply(fmt.Errorf("usage: run <contract|path.wasm>"))
		}
		if build, ok := contract.Catalog[args[0]]; ok {
			return m.submit(ledger.WithGuestCode(build(), account))
		}
		return m.submit(ledger.WithGuestModule(args[0], account))

	case "query":
		target := account
		if len(args) == 1 {
			target = model.AccountName(args[0])
		}
		return func() tea.Msg {
			res, err := m.peer.WSV().Answer(model.GetBalance{Account: target})
			if err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{text: fmt.Sprintf("%s: %v", target, res)}
		}

	default:
		return reply(fmt.Errorf("unknown command %q", verb))
	}
}

func (m *consoleModel) submit(tx *ledger.Transaction) tea.Cmd {
	return func() tea.Msg {
		r, err := m.client.SubmitTransaction(context.Background(), tx)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{text: fmt.Sprintf("%s (%s)", describe(tx), r.Elapsed)}
	}
}

func reply(err error, text ...string) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{err: err, text: strings.Join(text, " ")}
	}
}

func (m *consoleModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Ledger"))
	b.WriteString(" acting as ")
	b.WriteString(nameStyle.Render(string(m.account)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	for _, acc := range m.accounts {
		b.WriteString("  ")
		b.WriteString(nameStyle.Render(fmt.Sprintf("%-16s", acc.Name)))
		b.WriteString(" ")
		b.WriteString(balanceStyle.Render(strconv.FormatUint(uint64(acc.Balance), 10)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, h := range m.history {
		if h.err != nil {
			b.WriteString(errorStyle.Render("✗ " + h.err.Error()))
		} else {
			b.WriteString(okStyle.Render("✓ ") + h.text)
		}
		b.WriteString("\n")
	}
	if len(m.history) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("enter submit • q or esc quit"))

	return b.String()
}

func runInteractive(peer *ledger.Peer, account model.AccountName) error {
	p := tea.NewProgram(newConsoleModel(peer, account), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

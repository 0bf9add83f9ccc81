package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medlink/medlink-tui/app"
	"github.com/medlink/medlink-tui/client"
	"github.com/medlink/medlink-tui/config"
	"github.com/medlink/medlink-tui/msg"
	"github.com/medlink/medlink-tui/session"
	"github.com/medlink/medlink-tui/style"
)

var version = "dev"

func main() {
	urlFlag := flag.String("url", "", "Backend base URL (overrides MEDLINK_URL and config)")
	roleFlag := flag.String("role", "", "Starting role: doctor or patient")
	noColor := flag.Bool("no-color", false, "Disable ANSI colors")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.BoolVar(showVersion, "V", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("medlink %s\n", version)
		os.Exit(0)
	}

	if *noColor {
		lipgloss.SetColorProfile(0)
	}

	home, _ := os.UserHomeDir()
	profileDir := filepath.Join(home, ".medlink")
	cfg := config.Load(profileDir)

	baseURL := *urlFlag
	if baseURL == "" {
		baseURL = os.Getenv("MEDLINK_URL")
	}
	if baseURL == "" {
		baseURL = cfg.BackendURL
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	role := session.Role(*roleFlag)
	if role == "" {
		role = session.Role(cfg.DefaultRole)
	}

	theme := cfg.Theme
	if theme == "" {
		if lipgloss.HasDarkBackground() {
			theme = "dark"
		} else {
			theme = "light"
		}
	}
	style.SetTheme(theme)

	if os.Getenv("MEDLINK_DEBUG") != "" {
		f, err := tea.LogToFile(filepath.Join(profileDir, "debug.log"), "medlink")
		if err == nil {
			defer f.Close()
		}
	}

	store := session.NewStore()
	ctrl := session.NewController(store, client.New(baseURL))
	if role == session.RoleDoctor || role == session.RolePatient {
		ctrl.SetRole(role)
	}

	m := app.New(ctrl, store.State())

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
	p := tea.NewProgram(m, opts...)

	// Every store commit is forwarded to the UI loop in commit order.
	unsubscribe := store.Subscribe(func(s session.State) {
		p.Send(msg.StateChanged{State: s})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "medlink: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tymlipari/MRECards/internal/client"
)

var CLI struct {
	Server string `short:"s" long:"server" default:"ws://localhost:8080/ws" help:"Table server websocket URL"`
	Name   string `short:"n" long:"name" required:"" help:"Player name"`
}

func main() {
	kctx := kong.Parse(&CLI)

	conn, err := client.Dial(CLI.Server)
	if err != nil {
		fmt.Printf("Error connecting: %v\n", err)
		kctx.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Join(CLI.Name); err != nil {
		fmt.Printf("Error joining: %v\n", err)
		kctx.Exit(1)
	}

	p := tea.NewProgram(client.NewModel(conn, CLI.Name), tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running client: %v\n", err)
		kctx.Exit(1)
	}
}

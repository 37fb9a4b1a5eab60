package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/kelseyhightower/envconfig"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `envconfig:"CHAT_SERVER_URL" default:"ws://localhost:3030/chat"`
	Username  string `envconfig:"CHAT_USERNAME" required:"true"`
	Password  string `envconfig:"CHAT_PASSWORD" required:"true"`
	Colours   bool   `envconfig:"CHAT_COLOURS" default:"true"`
}

// frame covers every outbound event shape the server broadcasts.
type frame struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Content  string `json:"content"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target, err := url.Parse(config.ServerURL)
	if err != nil {
		return exitConfig, fmt.Errorf("bad server url: %w", err)
	}
	query := target.Query()
	query.Set("username", config.Username)
	query.Set("password", config.Password)
	target.RawQuery = query.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target.String(), nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.ServerURL, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	// Closing the connection unblocks the read loop when a signal fires.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	fmt.Printf(">>> Connected to %s as %s (Ctrl+C to quit)\n", config.ServerURL, config.Username)
	fmt.Println(">>> Commands: /edit <id> <new text>, /delete <id>; anything else posts a message")

	go receive(ctx, conn, config.Colours)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		action, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		payload, err := json.Marshal(action)
		if err != nil {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("send failed: %w", err)
		}
	}
	return exitOK, scanner.Err()
}

// parseLine maps a terminal line onto a wire action.
func parseLine(line string) (map[string]string, bool) {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return nil, false
	case strings.HasPrefix(line, "/edit "):
		parts := strings.SplitN(strings.TrimPrefix(line, "/edit "), " ", 2)
		if len(parts) != 2 {
			fmt.Println("usage: /edit <id> <new text>")
			return nil, false
		}
		return map[string]string{"type": "edit", "id": parts[0], "content": parts[1]}, true
	case strings.HasPrefix(line, "/delete "):
		return map[string]string{"type": "delete", "id": strings.TrimSpace(strings.TrimPrefix(line, "/delete "))}, true
	default:
		return map[string]string{"type": "message", "content": line}, true
	}
}

func receive(ctx context.Context, conn *websocket.Conn, colours bool) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				fmt.Fprintf(os.Stderr, "connection lost: %v\n", err)
			}
			return
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		render(f, colours)
	}
}

func render(f frame, colours bool) {
	if !colours {
		switch f.Type {
		case "message":
			fmt.Printf("[%s] %s: %s\n", f.ID, f.Username, f.Content)
		case "edit":
			fmt.Printf("[%s] (edited) %s\n", f.ID, f.Content)
		case "delete":
			fmt.Printf("[%s] (deleted)\n", f.ID)
		}
		return
	}
	switch f.Type {
	case "message":
		color.Green.Printf("[%s] ", f.ID)
		color.Cyan.Printf("%s: ", f.Username)
		fmt.Println(f.Content)
	case "edit":
		color.Yellow.Printf("[%s] (edited) ", f.ID)
		fmt.Println(f.Content)
	case "delete":
		color.Red.Printf("[%s] (deleted)\n", f.ID)
	}
}

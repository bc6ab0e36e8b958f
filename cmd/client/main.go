package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"chat-relay/infrastructure/ws"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `envconfig:"CHAT_SERVER_URL" default:"ws://localhost:8080/ws"`
	Name      string `envconfig:"CHAT_NAME"`
	Colours   bool   `envconfig:"CHAT_COLOURS" default:"true"`
}

// frame mirrors the server-to-client envelope.
type frame struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connectionId"`
	SenderName   string `json:"senderName"`
	Message      string `json:"message"`
	Text         string `json:"text"`
	Name         string `json:"name"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the websocket client lifecycle: configuration, dialing,
// the receive goroutine and the stdin send loop.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if !config.Colours {
		color.Disable()
	}

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Dial the relay.
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.ServerURL, err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock the stdin loop when a signal arrives.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	// 4. Receive loop: render every server event as it arrives.
	go func() {
		defer stop()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					color.Magenta.Println("* connection closed")
				}
				return
			}
			render(raw)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)

	// 5. Announce presence. The name is required before anything is sent.
	name := strings.TrimSpace(config.Name)
	for name == "" {
		color.White.Print("Your name: ")
		if !scanner.Scan() {
			return exitOK, nil
		}
		name = strings.TrimSpace(scanner.Text())
	}
	if err := send(conn, ws.Inbound{Type: "announce", Name: name}); err != nil {
		return exitRuntime, err
	}
	color.White.Printf("Connected as %s. /room <tag> scopes chat, /ai <prompt> asks the assistant.\n", name)

	// 6. Send loop. Empty input is filtered here, at the origin.
	room := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var out ws.Inbound
		switch {
		case strings.HasPrefix(line, "/room"):
			room = strings.TrimSpace(strings.TrimPrefix(line, "/room"))
			if room == "" {
				color.White.Println("* back to global chat")
			} else {
				color.White.Printf("* chatting in room %q\n", room)
			}
			continue
		case strings.HasPrefix(line, "/ai"):
			prompt := strings.TrimSpace(strings.TrimPrefix(line, "/ai"))
			if prompt == "" {
				continue
			}
			out = ws.Inbound{Type: "aiPrompt", Prompt: prompt}
		default:
			out = ws.Inbound{Type: "chat", Message: line, Room: room}
		}

		if err := send(conn, out); err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("send failed: %w", err)
		}
	}

	return exitOK, nil
}

func send(conn *websocket.Conn, in ws.Inbound) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}

func render(raw []byte) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return
	}
	switch f.Type {
	case "welcome":
		color.White.Printf("* connected (id %s)\n", f.ConnectionID)
	case "chat":
		color.Green.Printf("%s: %s\n", f.SenderName, f.Message)
	case "aiResponse":
		color.Cyan.Printf("assistant: %s\n", f.Text)
	case "userJoined":
		color.Yellow.Printf("* %s joined\n", f.Name)
	case "userLeft":
		color.Yellow.Printf("* %s left\n", f.Name)
	}
}

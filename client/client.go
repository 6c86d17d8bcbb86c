package main

import (
	"bufio"
	"context"
	"decision-lab/infrastructure/web"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/spf13/pflag"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables. Flags override them.
type Config struct {
	ServerAddress string `env:"DECISION_SERVER_ADDR,default=localhost:8080"`
	RoomID        string `env:"DECISION_ROOM_ID"`
	Username      string `env:"DECISION_USERNAME"`
	LogLevel      string `env:"LOG_LEVEL,default=WARN"`
}

const usage = `commands:
  add <answer>      propose an answer (lobby)
  start             start voting (creator only)
  yes <cardId>      swipe right
  no <cardId>       swipe left
  finish            done swiping
  quit`

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	pflag.StringVarP(&config.ServerAddress, "server", "s", config.ServerAddress, "server host:port")
	pflag.StringVarP(&config.RoomID, "room", "r", config.RoomID, "room id")
	pflag.StringVarP(&config.Username, "user", "u", config.Username, "username")
	roomCode := pflag.StringP("code", "c", "", "six letter room code, resolved to a room id")
	pflag.Parse()

	log := logs.GetLoggerFromString(config.LogLevel)

	if *roomCode != "" {
		id, err := resolveCode(config.ServerAddress, *roomCode)
		if err != nil {
			return exitRuntime, err
		}
		config.RoomID = id
	}
	if config.RoomID == "" || config.Username == "" {
		return exitConfig, fmt.Errorf("a room (--room or --code) and a username (--user) are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	endpoint := url.URL{Scheme: "ws", Host: config.ServerAddress, Path: "/ws"}
	socket, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint.String(), nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", endpoint.String(), err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = socket.Close()
	}()

	join, err := parseLine("join", config.RoomID, config.Username)
	if err != nil {
		return exitRuntime, err
	}
	if err := socket.WriteMessage(websocket.TextMessage, join); err != nil {
		return exitRuntime, fmt.Errorf("join failed: %w", err)
	}
	color.Green.Printf(">>> Joined room %s as %s\n%s\n", config.RoomID, config.Username, usage)

	received := make(chan error, 1)
	go func() { received <- readFrames(socket) }()

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case err := <-received:
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("connection lost: %w", err)
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "quit" {
				_ = socket.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
				return exitOK, nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			frame, err := parseLine(line, config.RoomID, config.Username)
			if err != nil {
				color.Red.Println(err.Error())
				continue
			}
			if err := socket.WriteMessage(websocket.TextMessage, frame); err != nil {
				return exitRuntime, fmt.Errorf("send failed: %w", err)
			}
		}
	}
}

// parseLine turns one user input line into a realtime frame.
func parseLine(line, roomID, username string) ([]byte, error) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var name string
	var payload map[string]any
	switch verb {
	case "join":
		name, payload = "JoinRoom", map[string]any{"roomId": roomID, "username": username}
	case "add":
		if arg == "" {
			return nil, fmt.Errorf("add needs an answer")
		}
		name, payload = "AddAnswer", map[string]any{"roomId": roomID, "answerText": arg}
	case "start":
		name, payload = "StartActivity", map[string]any{"roomId": roomID}
	case "yes", "no":
		if arg == "" {
			return nil, fmt.Errorf("%s needs a card id", verb)
		}
		name, payload = "SendCardSwipe", map[string]any{"roomId": roomID, "cardId": arg, "isRightSwipe": verb == "yes"}
	case "finish":
		name, payload = "FinishSwiping", map[string]any{"roomId": roomID, "username": username}
	default:
		return nil, fmt.Errorf("unknown command %q\n%s", verb, usage)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(web.Frame{Event: name, Payload: raw})
}

func readFrames(socket *websocket.Conn) error {
	for {
		_, data, err := socket.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(render(data))
	}
}

// render colors a server frame by kind.
func render(data []byte) string {
	var frame web.Frame
	if err := json.Unmarshal(data, &frame); err != nil {
		return string(data)
	}
	text := fmt.Sprintf("[%s] %-16s %s", time.Now().Format(time.TimeOnly), frame.Event, string(frame.Payload))
	switch frame.Event {
	case "CommandRejected":
		return color.Red.Sprint(text)
	case "ResultsReady":
		return color.Green.Sprint(text)
	case "ActivityStarted":
		return color.Yellow.Sprint(text)
	default:
		return color.Cyan.Sprint(text)
	}
}

func resolveCode(address, code string) (string, error) {
	endpoint := url.URL{Scheme: "http", Host: address, Path: "/rooms/code/" + url.PathEscape(code)}
	resp, err := http.Get(endpoint.String())
	if err != nil {
		return "", fmt.Errorf("room code lookup failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("room code %s: %s", code, resp.Status)
	}
	var body struct {
		RoomID string `json:"roomId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("room code lookup: %w", err)
	}
	return body.RoomID, nil
}

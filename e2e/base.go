package e2e

import (
	"bytes"
	"decision-lab/infrastructure/web"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
)

type BaseSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ServerAddr == "" {
		s.T().Skip("SERVER_ADDR not set, skipping end-to-end suite")
	}
	s.client = &http.Client{
		Timeout: 10 * time.Second,
		// The 303 of room creation is asserted, not followed
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
}

func (s *BaseSuite) step(t *testing.T, name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	t.Log(header)
}

func (s *BaseSuite) url(path string) string {
	return (&url.URL{Scheme: "http", Host: s.Config.ServerAddr, Path: path}).String()
}

func (s *BaseSuite) PostJSON(path string, body any) *http.Response {
	data, err := json.Marshal(body)
	s.Require().NoError(err)
	resp, err := s.client.Post(s.url(path), "application/json", bytes.NewReader(data))
	s.Require().NoError(err)
	return resp
}

func (s *BaseSuite) GetJSON(path string, out any) int {
	resp, err := s.client.Get(s.url(path))
	s.Require().NoError(err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// Session is one realtime connection of a participant.
type Session struct {
	suite  *BaseSuite
	name   string
	socket *websocket.Conn
}

func (s *BaseSuite) Dial(t *testing.T, name string) *Session {
	s.step(t, "connect "+name)
	endpoint := url.URL{Scheme: "ws", Host: s.Config.ServerAddr, Path: "/ws"}
	socket, _, err := websocket.DefaultDialer.Dial(endpoint.String(), nil)
	s.Require().NoError(err)
	t.Cleanup(func() { _ = socket.Close() })
	return &Session{suite: s, name: name, socket: socket}
}

func (c *Session) Send(eventName string, payload any) {
	raw, err := json.Marshal(payload)
	c.suite.Require().NoError(err)
	data, err := json.Marshal(web.Frame{Event: eventName, Payload: raw})
	c.suite.Require().NoError(err)
	c.suite.Require().NoError(c.socket.WriteMessage(websocket.TextMessage, data))
}

// Expect reads frames until one named eventName arrives and decodes its payload into out.
func (c *Session) Expect(eventName string, out any) {
	deadline := time.Now().Add(5 * time.Second)
	for {
		c.suite.Require().NoError(c.socket.SetReadDeadline(deadline))
		_, data, err := c.socket.ReadMessage()
		c.suite.Require().NoError(err, "%s waiting for %s", c.name, eventName)
		if c.suite.Config.DebugJSON {
			c.suite.T().Logf("%s <- %s", c.name, data)
		}
		var frame web.Frame
		c.suite.Require().NoError(json.Unmarshal(data, &frame))
		if frame.Event != eventName {
			continue
		}
		if out != nil {
			c.suite.Require().NoError(json.Unmarshal(frame.Payload, out))
		}
		return
	}
}

func decode(resp *http.Response, out any) error {
	return json.NewDecoder(resp.Body).Decode(out)
}

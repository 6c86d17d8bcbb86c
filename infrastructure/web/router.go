// Package web exposes rooms over HTTP and the realtime protocol over websocket.
package web

import (
	"decision-lab/contract"
	"decision-lab/domain"
	"decision-lab/errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// StatsFunc reports live figures for /healthz.
type StatsFunc func() (rooms, connections int)

type RoomHandler struct {
	service contract.IRoomService
	log     *slog.Logger
}

// NewRouter builds the gin engine serving the HTTP API and the websocket endpoint.
func NewRouter(service contract.IRoomService, ws *WebsocketHandler, stats StatsFunc, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	h := RoomHandler{service: service, log: log}
	router.POST("/rooms", h.CreateRoom)
	router.GET("/rooms/code/:code", h.FindByCode)
	router.GET("/rooms/:id/lobby", h.Lobby)
	router.GET("/rooms/:id/swipe", h.Swipe)
	router.GET("/rooms/:id/results", h.Results)
	router.GET("/ws", ws.Serve)
	router.GET("/healthz", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if stats != nil {
			rooms, connections := stats()
			body["rooms"], body["connections"] = rooms, connections
		}
		c.JSON(http.StatusOK, body)
	})
	return router
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds())
	}
}

type createRoomResponse struct {
	RoomID   domain.RoomID `json:"roomId"`
	RoomCode string        `json:"roomCode"`
}

type cardView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

type lobbyView struct {
	RoomID              domain.RoomID     `json:"roomId"`
	RoomCode            string            `json:"roomCode"`
	Question            string            `json:"question"`
	CreatorUsername     string            `json:"creatorUsername"`
	Phase               string            `json:"phase"`
	IsActive            bool              `json:"isActive"`
	TimeLimitSeconds    *int              `json:"timeLimitSeconds,omitempty"`
	MaxAnswersPerPerson int               `json:"maxAnswersPerPerson"`
	VotingEndsAt        *time.Time        `json:"votingEndsAt,omitempty"`
	Participants        []participantView `json:"participants"`
	Cards               []cardView        `json:"cards"`
}

type swipeView struct {
	RoomID       domain.RoomID `json:"roomId"`
	Question     string        `json:"question"`
	VotingEndsAt *time.Time    `json:"votingEndsAt,omitempty"`
	Cards        []cardView    `json:"cards"`
}

func toCardViews(cards []domain.Card) []cardView {
	return lo.Map(cards, func(c domain.Card, _ int) cardView {
		return cardView{ID: c.ID, Title: c.Title, ImageURL: c.ImageURL}
	})
}

// CreateRoom answers 303 to the lobby of the new room.
func (h RoomHandler) CreateRoom(c *gin.Context) {
	var req domain.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-request-format"})
		return
	}
	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		h.abort(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/rooms/%s/lobby", room.ID))
	c.JSON(http.StatusSeeOther, createRoomResponse{RoomID: room.ID, RoomCode: room.Code})
}

func (h RoomHandler) Lobby(c *gin.Context) {
	room, err := h.service.Lobby(c.Request.Context(), domain.RoomID(c.Param("id")))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, lobbyView{
		RoomID:              room.ID,
		RoomCode:            room.Code,
		Question:            room.Question,
		CreatorUsername:     room.CreatorUsername,
		Phase:               room.Phase.String(),
		IsActive:            room.IsActive,
		TimeLimitSeconds:    room.TimeLimitSeconds,
		MaxAnswersPerPerson: room.MaxAnswersPerPerson,
		VotingEndsAt:        room.VotingEndsAt,
		Participants: lo.Map(room.Participants, func(p domain.Participant, _ int) participantView {
			return participantView{Username: p.Username}
		}),
		Cards: toCardViews(room.Cards),
	})
}

func (h RoomHandler) Swipe(c *gin.Context) {
	room, err := h.service.SwipeView(c.Request.Context(), domain.RoomID(c.Param("id")))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, swipeView{
		RoomID:       room.ID,
		Question:     room.Question,
		VotingEndsAt: room.VotingEndsAt,
		Cards:        toCardViews(room.Cards),
	})
}

func (h RoomHandler) FindByCode(c *gin.Context) {
	id, err := h.service.FindByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomId": id})
}

func (h RoomHandler) Results(c *gin.Context) {
	results, err := h.service.Results(c.Request.Context(), domain.RoomID(c.Param("id")))
	if err != nil {
		h.abort(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h RoomHandler) abort(c *gin.Context, err error) {
	status := errors.MapToHTTPStatus(err)
	switch status {
	case http.StatusNotFound:
		c.AbortWithStatusJSON(status, gin.H{"error": errors.ErrRoomNotFound.Error()})
	case http.StatusInternalServerError:
		h.log.Error("Request failed", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal-error"})
	default:
		c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
	}
}

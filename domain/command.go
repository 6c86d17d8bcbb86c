package domain

// Command is one inbound realtime event, already bound to the connection that sent it.
type Command interface {
	RoomID() RoomID
	Connection() ConnectionID
}

type JoinRoomCommand struct {
	Room         RoomID
	Username     string
	ConnectionID ConnectionID
}

func (c JoinRoomCommand) RoomID() RoomID           { return c.Room }
func (c JoinRoomCommand) Connection() ConnectionID { return c.ConnectionID }

type AddAnswerCommand struct {
	Room         RoomID
	Text         string
	ConnectionID ConnectionID
}

func (c AddAnswerCommand) RoomID() RoomID           { return c.Room }
func (c AddAnswerCommand) Connection() ConnectionID { return c.ConnectionID }

type StartActivityCommand struct {
	Room         RoomID
	ConnectionID ConnectionID
}

func (c StartActivityCommand) RoomID() RoomID           { return c.Room }
func (c StartActivityCommand) Connection() ConnectionID { return c.ConnectionID }

type SendCardSwipeCommand struct {
	Room         RoomID
	CardID       string
	IsRightSwipe bool
	ConnectionID ConnectionID
}

func (c SendCardSwipeCommand) RoomID() RoomID           { return c.Room }
func (c SendCardSwipeCommand) Connection() ConnectionID { return c.ConnectionID }

type FinishSwipingCommand struct {
	Room         RoomID
	Username     string
	ConnectionID ConnectionID
}

func (c FinishSwipingCommand) RoomID() RoomID           { return c.Room }
func (c FinishSwipingCommand) Connection() ConnectionID { return c.ConnectionID }

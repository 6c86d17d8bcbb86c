package main

import (
	"decision-lab/domain"
	"decision-lab/repositories"
	"decision-lab/storage"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/pflag"
)

func main() {
	dbPath := pflag.String("db", "./data/badger", "Path to badger DB")
	limit := pflag.Int("limit", 0, "Maximum number of rooms listed, 0 for all")
	roomID := pflag.String("room", "", "Dump one room document in CBOR diagnostic notation")
	pflag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithReadOnly(true).WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	repository := repositories.NewRoomRepository(db, slog.New(slog.DiscardHandler))

	if *roomID != "" {
		raw, err := repository.Raw(domain.RoomID(*roomID))
		if err != nil {
			log.Fatal(err)
		}
		diag, err := storage.Diagnose(raw)
		if err != nil {
			log.Fatal("Error while decoding document: ", err)
		}
		fmt.Println(diag)
		return
	}

	var maxRooms *int
	if *limit > 0 {
		maxRooms = limit
	}
	rooms, err := repository.List(maxRooms)
	if err != nil {
		log.Fatal("Error while listing rooms: ", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Room ID", "Code", "Phase", "Question", "Participants", "Finished", "Cards", "Swipes", "Created"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for _, room := range rooms {
		table.Append(roomRow(room))
	}
	table.Render()
	fmt.Printf("\n%d room(s)\n", len(rooms))
}

func roomRow(room domain.Room) []string {
	question := []rune(room.Question)
	if len(question) > 40 {
		question = append(question[:39], '…')
	}
	return []string{
		string(room.ID),
		room.Code,
		room.Phase.String(),
		string(question),
		strconv.Itoa(len(room.Participants)),
		fmt.Sprintf("%d/%d", len(room.FinishedParticipants), len(room.Participants)),
		strconv.Itoa(len(room.Cards)),
		strconv.Itoa(len(room.Swipes)),
		room.CreatedAt.Format(time.DateTime),
	}
}

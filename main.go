package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"

	"sketchroom/internal/auth"
	"sketchroom/internal/client"
	"sketchroom/internal/lan"
	"sketchroom/internal/render"
	"sketchroom/internal/server"
	"sketchroom/internal/shape"
	"sketchroom/internal/tool"
	"sketchroom/internal/ui"
	"sketchroom/internal/view"
)

func main() {
	var (
		serve     = flag.Bool("serve", false, "run a room server instead of the client")
		addr      = flag.String("addr", ":8080", "server listen address")
		dbPath    = flag.String("db", "sketchroom.db", "path to the sqlite database")
		announce  = flag.Bool("announce", false, "advertise the server over mDNS on the local network")
		secret    = flag.String("secret", "", "token signing secret (or SKETCHROOM_SECRET)")
		serverURL = flag.String("server", "http://127.0.0.1:8080", "server base URL for client mode")
		room      = flag.String("room", "", "room slug to join")
		token     = flag.String("token", "", "connection token (or SKETCHROOM_TOKEN)")
		mintUser  = flag.String("mint-token", "", "print a token for the given user id and exit")
		create    = flag.String("create-room", "", "create a room with the given slug and exit")
		discover  = flag.Bool("discover", false, "browse the local network for servers and exit")
	)
	flag.Parse()

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if *secret == "" {
		*secret = os.Getenv("SKETCHROOM_SECRET")
	}
	if *token == "" {
		*token = os.Getenv("SKETCHROOM_TOKEN")
	}

	switch {
	case *mintUser != "":
		runMintToken(*secret, *mintUser)
	case *discover:
		runDiscover()
	case *create != "":
		runCreateRoom(*serverURL, *token, *create)
	case *serve:
		runServer(*addr, *dbPath, *secret, *announce)
	default:
		runClient(*serverURL, *token, *room)
	}
}

func requireSecret(secret string) string {
	if secret == "" {
		log.Fatal("a signing secret is required: pass -secret or set SKETCHROOM_SECRET")
	}
	return secret
}

func runMintToken(secret, userID string) {
	token, err := auth.New(requireSecret(secret)).Sign(userID)
	if err != nil {
		log.Fatalf("mint token: %v", err)
	}
	fmt.Println(token)
}

func runDiscover() {
	found := false
	err := lan.Browse(func(addr string) {
		found = true
		fmt.Println(addr)
	})
	if err != nil {
		log.Fatalf("browse: %v", err)
	}
	if !found {
		log.Println("no servers found on the local network")
	}
}

func runCreateRoom(serverURL, token, slug string) {
	c := client.New(serverURL, token)
	id, err := c.CreateRoom(slug)
	if err != nil {
		log.Fatalf("create room: %v", err)
	}
	fmt.Printf("room %q created with id %s\n", slug, id)
}

func runServer(addr, dbPath, secret string, announce bool) {
	store, err := server.OpenStore(dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	srv := server.New(store, auth.New(requireSecret(secret)))

	if announce {
		port := listenPort(addr)
		mdnsServer, err := lan.Advertise(port)
		if err != nil {
			log.Printf("mdns advertise failed: %v", err)
		} else {
			defer mdnsServer.Shutdown()
			if ip, err := lan.OutgoingIP(); err == nil {
				log.Printf("announced on %s:%d", ip, port)
			}
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		log.Println("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func runClient(serverURL, token, roomSlug string) {
	if roomSlug == "" {
		log.Fatal("client mode needs -room <slug>")
	}

	viewport := view.New()
	shapes := shape.NewCollection()
	machine := tool.NewMachine(viewport, shapes)
	engine := render.NewEngine(1024, 768)
	board := ui.NewBoardWidget(viewport, shapes, machine, engine)

	// The window comes up before any sync callback can fire.
	win := ui.BuildWindow("sketchroom - "+roomSlug, board)

	sync := client.New(serverURL, token)

	roomID, err := sync.ResolveRoom(roomSlug)
	if errors.Is(err, client.ErrRoomNotFound) {
		// No socket is ever opened for an unresolvable room.
		log.Fatalf("room %q not found", roomSlug)
	}
	if err != nil {
		log.Fatalf("resolve room: %v", err)
	}

	// The cache rebuilds entirely from stored history before the
	// socket carries anything.
	history, err := sync.Hydrate(roomID)
	if err != nil {
		log.Fatalf("hydrate room: %v", err)
	}
	shapes.Reset(history)

	machine.OnCommit = func(s shape.Shape) { sync.SendCreate(roomID, s) }
	machine.OnErase = func(id string) { sync.SendDelete(roomID, id) }
	sync.OnCreate = func(s shape.Shape) {
		if shapes.Append(s) {
			fyne.Do(board.Refresh)
		}
	}
	sync.OnDelete = func(id string) {
		if shapes.Remove(id) {
			fyne.Do(board.Refresh)
		}
	}
	sync.OnDisconnect = func(err error) {
		board.SetStatus(fmt.Sprintf("Disconnected: %v", err))
	}

	if err := sync.Connect(roomID); err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer sync.Close()
	board.SetStatus(fmt.Sprintf("Joined %s with %d shapes", roomSlug, len(history)))

	win.ShowAndRun()
}

func listenPort(addr string) int {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return 8080
	}
	port, err := strconv.Atoi(addr[idx+1:])
	if err != nil {
		return 8080
	}
	return port
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"StrokeBoard/internal/canvas"
	"StrokeBoard/internal/config"
	"StrokeBoard/internal/export"
	boardnet "StrokeBoard/internal/net"
	"StrokeBoard/internal/state"
	"StrokeBoard/internal/ui"
)

func main() {
	configPath := flag.String("config", "strokeboard.toml", "path to the TOML config file")
	imageSrc := flag.String("image", "", "base image path or URL (overrides the config)")
	discover := flag.Bool("discover", false, "join the first host found on the local network")
	writeConfig := flag.Bool("write-config", false, "write the effective config to -config and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *imageSrc != "" {
		cfg.Canvas.ImageSrc = *imageSrc
	}
	if *writeConfig {
		if err := config.SaveFile(*configPath, cfg); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		log.Printf("Config written to %s", *configPath)
		return
	}

	var memories *ui.Memories
	if cfg.Memories != "" {
		if memories, err = ui.LoadMemories(cfg.Memories); err != nil {
			log.Printf("Research memories unavailable: %v", err)
		}
	}

	addr, ok := boardnet.ParseShareLink(flag.Arg(0))
	if !ok && *discover {
		addr, ok = discoverHost(3 * time.Second)
	}
	if ok {
		runClient(cfg, memories, addr)
	} else {
		runHost(cfg, memories)
	}
}

// discoverHost browses for advertised hosts and returns the first one.
func discoverHost(timeout time.Duration) (string, bool) {
	var first string
	err := boardnet.Browse(timeout, func(addr string) {
		log.Printf("[MDNS] Found host at %s", addr)
		if first == "" {
			first = addr
		}
	})
	if err != nil {
		log.Printf("[MDNS] %v", err)
	}
	if first == "" {
		log.Println("[MDNS] No host found, starting as host")
		return "", false
	}
	return first, true
}

// newBoard mounts a canvas at the clock's current token, so the initial
// color is not replayed as a command.
func newBoard(cfg config.Config) (*canvas.Canvas, *state.ActionClock) {
	clock := &state.ActionClock{}
	return canvas.New(cfg.CanvasOptions(), cfg.Canvas.InitialColor, clock.Current()), clock
}

func runHost(cfg config.Config, memories *ui.Memories) {
	log.Println("Starting as HOST")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store := state.NewSubmissions()
	host := boardnet.NewHost(store, boardnet.Limits{
		MaxComplexity: cfg.Canvas.ComplexityLimit,
		Area:          state.NewDrawingArea(float64(cfg.Canvas.Width), float64(cfg.Canvas.Height)),
	})

	board, clock := newBoard(cfg)
	shareLink := ""
	if ip, err := boardnet.GetOutgoingIP(); err == nil {
		shareLink = boardnet.ShareLink(ip, cfg.Host.Port)
	}
	a := ui.NewApp("StrokeBoard (host) "+shareLink, cfg, board, clock, memories)

	host.OnSubmission = func(sub state.Submission) {
		a.SetStatus(fmt.Sprintf("Submission %s from %s (%d lines), %d stored, %d boards connected",
			sub.ID, sub.OwnerID, sub.Complexity(), store.Count(), host.PeerCount()))
	}

	board.OnDraw = func() {
		log.Printf("[HOST] Local stroke committed, complexity %d", board.Complexity())
	}
	board.OnUndo = func(restored string) {
		a.SetStatus("Undo, color " + restored)
	}
	// The host's own board submits straight into the store.
	board.OnImageExport = func(lines []export.Line) {
		if len(lines) == 0 || len(lines) > cfg.Canvas.ComplexityLimit {
			a.SetStatus(fmt.Sprintf("Drawing not submitted (%d lines)", len(lines)))
			return
		}
		sub := store.Add("host", lines)
		a.SetStatus("Submitted " + sub.ID)
	}

	go func() {
		if err := host.ListenAndServe(ctx, cfg.Host.Port); err != nil {
			log.Printf("[HOST] %v", err)
			a.SetStatus("Host stopped: " + err.Error())
		}
	}()

	if cfg.Host.Advertise {
		server, err := boardnet.Advertise(cfg.Host.Port)
		if err != nil {
			log.Printf("[MDNS] %v", err)
		} else {
			defer server.Shutdown()
		}
	}

	a.Run()
}

func runClient(cfg config.Config, memories *ui.Memories, addr string) {
	log.Println("Starting as CLIENT")
	board, clock := newBoard(cfg)
	a := ui.NewApp("StrokeBoard", cfg, board, clock, memories)

	connected := make(chan *boardnet.Client, 1)
	go connectToHost(a, board, addr, connected)
	a.Run()

	select {
	case client := <-connected:
		if err := client.Close(); err != nil {
			log.Printf("[CLIENT] Close: %v", err)
		}
	default:
	}
}

func connectToHost(a *ui.App, board *canvas.Canvas, addr string, connected chan<- *boardnet.Client) {
	time.Sleep(500 * time.Millisecond) // Give UI time to launch

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := boardnet.Dial(ctx, addr)
	if err != nil {
		a.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	connected <- client
	a.SetStatus("Connected to host as " + client.OwnerID())

	// Callbacks fire on the UI goroutine; the network work happens elsewhere.
	a.Do(func() {
		board.OnDraw = func() {
			go func() {
				if err := client.Notify(boardnet.TypeDraw, ""); err != nil {
					log.Printf("[CLIENT] %v", err)
				}
			}()
		}
		board.OnUndo = func(restored string) {
			go func() {
				if err := client.Notify(boardnet.TypeUndo, restored); err != nil {
					log.Printf("[CLIENT] %v", err)
				}
			}()
		}
		board.OnImageExport = func(lines []export.Line) {
			go submit(a, client, lines)
		}
	})
}

func submit(a *ui.App, client *boardnet.Client, lines []export.Line) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reply, err := client.Submit(ctx, lines)
	switch {
	case errors.Is(err, boardnet.ErrRejected):
		a.SetStatus("Drawing rejected: " + reply.Reason)
	case err != nil:
		a.SetStatus(fmt.Sprintf("Submission failed: %v", err))
	default:
		a.SetStatus("Drawing submitted as " + reply.ID)
	}
}

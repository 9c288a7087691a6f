// qnbot is a headless observer client. It joins a server, mirrors the
// replicated structures, runs the speculative build preview every frame and
// places a piece whenever the preview allows while walking along its spawn yaw.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/quakenite/server/internal/client"
	"github.com/quakenite/server/internal/data"
	"github.com/quakenite/server/internal/geom"
	gonet "github.com/quakenite/server/internal/net"
	"github.com/quakenite/server/internal/net/packet"
)

const (
	frameTime  = 50 * time.Millisecond
	viewHeight = 26
	walkSpeed  = 96.0 // units per second
)

type connSender struct {
	conn net.Conn
}

func (s connSender) Send(payload []byte) error {
	return gonet.WriteFrame(s.conn, payload)
}

func main() {
	addr := flag.String("addr", "127.0.0.1:27960", "server address")
	mapPath := flag.String("map", "data/maps/qnarena1.yaml", "arena map used for the local collision view")
	name := flag.String("name", "qnbot", "display name")
	frames := flag.Int("frames", 600, "frames to run before quitting")
	placeEvery := flag.Int("place-every", 10, "frames between placement attempts")
	pieceList := flag.String("pieces", "1,2,3,4", "piece numbers to cycle through (1 wall, 2 floor, 3 ramp, 4 roof)")
	flag.Parse()

	log, _ := zap.NewDevelopment()
	defer log.Sync()

	pieces, err := data.ParsePieceList(*pieceList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "qnbot: -pieces: %v\n", err)
		os.Exit(2)
	}

	if err := run(*addr, *mapPath, *name, *frames, *placeEvery, pieces, log); err != nil {
		fmt.Fprintf(os.Stderr, "qnbot: %v\n", err)
		os.Exit(1)
	}
}

func run(addr, mapPath, name string, frames, placeEvery int, pieces []data.PieceType, log *zap.Logger) error {
	arena, err := data.LoadArenaMap(mapPath)
	if err != nil {
		return fmt.Errorf("load arena: %w", err)
	}

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	send := connSender{conn: conn}

	inbound := make(chan []byte, 256)
	readErr := make(chan error, 1)
	go func() {
		for {
			payload, err := gonet.ReadFrame(conn)
			if err != nil {
				readErr <- err
				return
			}
			inbound <- payload
		}
	}()

	mirror := client.NewMirror()
	mirror.OnPrint = func(text string) { log.Info("server", zap.String("print", text)) }
	mirror.OnEffect = func(e client.Effect) {
		log.Debug("effect", zap.Uint8("kind", e.Kind), zap.Int32("actor", e.Actor), zap.Stringer("origin", e.Origin))
	}
	ctrl := client.NewController(arena, mirror, send)

	if err := client.Join(send, name); err != nil {
		return err
	}

	spawn := arena.Spawn(0)
	origin := spawn.Origin
	angles := geom.Angles{Pitch: 45, Yaw: spawn.Yaw}
	next := 0
	placed, refused := 0, 0
	retoggleAt := 0

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for frame := 0; frame < frames; frame++ {
		select {
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return errors.New("server closed the connection")
			}
			return fmt.Errorf("read: %w", err)
		case <-ticker.C:
		}

	drain:
		for {
			select {
			case payload := <-inbound:
				if err := mirror.Apply(payload); err != nil {
					log.Debug("ignored packet", zap.String("op", packet.OpcodeName(payload[0])), zap.Error(err))
				}
			default:
				break drain
			}
		}
		if mirror.ActorID() == 0 {
			continue
		}

		origin = origin.MA(walkSpeed*frameTime.Seconds(), geom.Angles{Yaw: angles.Yaw}.Forward())
		if err := client.Move(send, origin, angles, viewHeight); err != nil {
			return err
		}

		// The server's state snapshot overrides local prediction, so wait for
		// it to catch up before toggling again.
		if !ctrl.Build().Active && frame >= retoggleAt {
			if err := ctrl.ToggleBuildMode(); err != nil {
				return err
			}
			retoggleAt = frame + 20
		}
		ctrl.UpdatePreview(client.View{Origin: origin.Add(geom.V(0, 0, viewHeight)), Angles: angles})

		if frame%placeEvery != 0 {
			continue
		}
		if err := ctrl.SelectPiece(pieces[next]); err != nil {
			return err
		}
		next++
		if next == len(pieces) {
			next = 0
			if err := ctrl.Rotate(); err != nil {
				return err
			}
		}
		ok, err := ctrl.Place()
		if err != nil {
			return err
		}
		if ok {
			placed++
		} else {
			refused++
		}
	}

	log.Info("done",
		zap.Int("attempts", placed),
		zap.Int("refused_locally", refused),
		zap.Int("mirrored_structures", mirror.StructureCount()),
		zap.Int("materials", mirror.State().Materials))
	return client.Quit(send)
}

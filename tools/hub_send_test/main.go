package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/midiwire-io/midiwire/internal/midi"
	"github.com/midiwire-io/midiwire/internal/port"
	"github.com/midiwire-io/midiwire/internal/transport"
)

func main() {
	addr := flag.String("addr", "localhost:5004", "Hub address")
	channel := flag.Int("channel", 0, "Channel to send on (0-15)")
	note := flag.String("note", "60", "Note to send: a number or a name like C4 or F#2")
	velocity := flag.Int("velocity", 100, "Note velocity")
	listen := flag.Duration("listen", 5*time.Second, "How long to print relayed messages after sending")
	flag.Parse()

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: connecting to hub: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	p, err := port.New(transport.NewConn(conn, transport.DefaultPollInterval), port.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating port: %v\n", err)
		os.Exit(1)
	}

	noteNum, err := parseNote(*note)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	on, err := midi.NewNoteOn(noteNum, *velocity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	off, err := midi.NewNoteOff(noteNum, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if err := p.SendOn(*channel, on, off); err != nil {
		fmt.Fprintf(os.Stderr, "error: sending: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("sent note=%d velocity=%d channel=%d\n", noteNum, *velocity, *channel)

	listenForRelays(p, *listen)
}

// parseNote accepts a plain note number or a name like "C4".
func parseNote(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	return midi.NoteNumber(s)
}

func listenForRelays(p *port.Port, d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		msg, ch, err := p.Receive()
		if err != nil {
			fmt.Fprintf(os.Stderr, "receive error: %v\n", err)
			return
		}
		if msg == nil {
			continue
		}
		if ch != midi.NoChannel {
			fmt.Printf("received %T channel=%d %+v\n", msg, ch, msg)
		} else {
			fmt.Printf("received %T %+v\n", msg, msg)
		}
	}
}

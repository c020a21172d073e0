package dtmf

/*------------------------------------------------------------------
 *
 * Purpose:   	Inbound keypad characters for Send mode.
 *
 * Description:	Characters may arrive from several places at once:
 *		standard input, a serial port, a pseudo terminal for
 *		other applications, or TCP clients.  Each has a reader
 *		goroutine feeding one queue.  The controller takes at
 *		most one character per cycle and never waits long.
 *
 *		Characters are passed through unchanged.  The
 *		controller decides what they mean.
 *
 *---------------------------------------------------------------*/

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creack/pty"
	"github.com/pkg/term"
)

type SymbolQueue struct {
	ch     chan byte
	wait   time.Duration
	timer  *time.Timer
	logger *log.Logger
}

/*------------------------------------------------------------------
 *
 * Name:        NewSymbolQueue
 *
 * Inputs:	capacity	- Characters buffered before feeders
 *				  have to wait.
 *
 *		wait		- Longest time PollSymbol waits for a
 *				  character.  0 to never wait.
 *
 *----------------------------------------------------------------*/

func NewSymbolQueue(capacity int, wait time.Duration, logger *log.Logger) *SymbolQueue {
	var q = &SymbolQueue{
		ch:     make(chan byte, capacity),
		wait:   wait,
		logger: logger,
	}

	if wait > 0 {
		q.timer = time.NewTimer(wait)
		q.timer.Stop()
	}

	return q
}

// PollSymbol is called from the control loop only.
func (q *SymbolQueue) PollSymbol() (byte, bool) {
	if q.timer == nil {
		select {
		case b := <-q.ch:
			return b, true
		default:
			return 0, false
		}
	}

	q.timer.Reset(q.wait)
	defer q.timer.Stop()

	select {
	case b := <-q.ch:
		return b, true
	case <-q.timer.C:
		return 0, false
	}
}

// Push adds one character, waiting for room.
func (q *SymbolQueue) Push(ctx context.Context, b byte) error {
	select {
	case q.ch <- b:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Feed copies characters from r until end of file, an error, or ctx is done.
func (q *SymbolQueue) Feed(ctx context.Context, r io.Reader) error {
	var br = bufio.NewReader(r)

	for {
		var b, err = br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		if pushErr := q.Push(ctx, b); pushErr != nil {
			return pushErr
		}
	}
}

// FeedFrom runs Feed in the background and logs how it ended.
func (q *SymbolQueue) FeedFrom(ctx context.Context, name string, r io.Reader) {
	go func() {
		var err = q.Feed(ctx, r)

		switch {
		case err == nil:
			q.logger.Infof("Symbol input %s: end of input.", name)
		case errors.Is(err, context.Canceled):
		default:
			q.logger.Errorf("Symbol input %s: %v", name, err)
		}
	}()
}

/*-------------------------------------------------------------------
 *
 * Name:	OpenSerialSymbols
 *
 * Purpose:	Open a serial port for keypad input.
 *
 * Inputs:	device	- Usually /dev/tty...  Could be /dev/rfcomm0
 *			  for Bluetooth.
 *
 *		baud	- Speed.  0 to leave it alone.
 *
 *---------------------------------------------------------------*/

func OpenSerialSymbols(device string, baud int) (*term.Term, error) {
	var opts = []func(*term.Term) error{term.RawMode}

	switch baud {
	case 0:
	case 1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200:
		opts = append(opts, term.Speed(baud))
	default:
		return nil, fmt.Errorf("serial port %s: unsupported speed %d", device, baud)
	}

	var t, err = term.Open(device, opts...)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", device, err)
	}

	return t, nil
}

// PtySymbols is a pseudo terminal.  Other applications write keypad
// characters to the slave side, named by Name.
type PtySymbols struct {
	master *os.File
	slave  *os.File
}

func OpenPtySymbols() (*PtySymbols, error) {
	var master, slave, err = pty.Open()
	if err != nil {
		return nil, fmt.Errorf("open pseudo terminal: %w", err)
	}

	// The slave stays open here so reads don't fail while no client has it open.
	return &PtySymbols{master: master, slave: slave}, nil
}

func (p *PtySymbols) Name() string {
	return p.slave.Name()
}

func (p *PtySymbols) Read(b []byte) (int, error) {
	return p.master.Read(b)
}

func (p *PtySymbols) Close() error {
	return errors.Join(p.master.Close(), p.slave.Close())
}

// ListenSymbols opens the TCP keypad port.  Port 0 lets the kernel pick one;
// a tcp_port of 0 in the configuration means no listener at all.
func ListenSymbols(port int) (net.Listener, error) {
	var ln, err = net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen for symbol clients: %w", err)
	}

	return ln, nil
}

// Serve accepts TCP clients until ctx is done.  Each client feeds the
// queue until it disconnects.
func (q *SymbolQueue) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		var conn, acceptErr = ln.Accept()
		if acceptErr != nil {
			if ctx.Err() != nil {
				return nil
			}

			return fmt.Errorf("accept symbol client: %w", acceptErr)
		}

		q.logger.Infof("Symbol client %s connected.", conn.RemoteAddr())

		go func() {
			defer conn.Close()

			if err := q.Feed(ctx, conn); err != nil && ctx.Err() == nil {
				q.logger.Warnf("Symbol client %s: %v", conn.RemoteAddr(), err)
			}

			q.logger.Infof("Symbol client %s disconnected.", conn.RemoteAddr())
		}()
	}
}

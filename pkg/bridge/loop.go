// Package bridge implements the command-dispatch core: the request dispatcher
// and the newline-delimited JSON protocol loop over stdin/stdout.
//
// Each input line is handled by its own goroutine, so responses are written
// in completion order, not input order. Callers that need strict ordering
// must correlate responses themselves.
package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

// maxLineBytes bounds a single request line.
const maxLineBytes = 16 * 1024 * 1024

var errLineTooLong = fmt.Errorf("request line exceeds %d bytes", maxLineBytes)

// Loop reads newline-delimited JSON commands and writes one response
// envelope per command.
type Loop struct {
	dispatcher *Dispatcher
	timeout    time.Duration

	mu  sync.Mutex
	enc *json.Encoder
}

// NewLoop creates a protocol loop writing envelopes to out. timeout bounds
// each command's backend work.
func NewLoop(dispatcher *Dispatcher, out io.Writer, timeout time.Duration) *Loop {
	return &Loop{
		dispatcher: dispatcher,
		enc:        json.NewEncoder(out),
		timeout:    timeout,
	}
}

// Run consumes lines from in until EOF or ctx cancellation, then waits for
// in-flight commands to finish before returning. In-flight work is not
// aborted by cancellation; each command is bounded by the loop timeout
// instead, so the drain phase is bounded too.
func (l *Loop) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		reader := bufio.NewReaderSize(in, 64*1024)
		for {
			line, err := readLine(reader)
			if errors.Is(err, errLineTooLong) {
				// Local to this line; the loop keeps going.
				l.writeError(err)
				continue
			}
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
				select {
				case lines <- trimmed:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if err != io.EOF {
					readErr <- err
				}
				return
			}
		}
	}()

	var wg sync.WaitGroup
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.handleLine(line)
			}()
		}
	}
	wg.Wait()

	select {
	case err := <-readErr:
		return fmt.Errorf("read input: %w", err)
	default:
		return nil
	}
}

// readLine reads up to the next newline. A line exceeding maxLineBytes is
// discarded through its trailing newline and reported as errLineTooLong, so
// one oversized request never takes down the loop.
func readLine(r *bufio.Reader) ([]byte, error) {
	var line []byte
	for {
		chunk, err := r.ReadSlice('\n')
		line = append(line, chunk...)
		if err == nil || err == io.EOF {
			return line, err
		}
		if err != bufio.ErrBufferFull {
			return line, err
		}
		if len(line) > maxLineBytes {
			return nil, discardLine(r)
		}
	}
}

// discardLine consumes the remainder of the current line.
func discardLine(r *bufio.Reader) error {
	for {
		_, err := r.ReadSlice('\n')
		switch err {
		case nil, io.EOF:
			return errLineTooLong
		case bufio.ErrBufferFull:
			continue
		default:
			return err
		}
	}
}

// handleLine processes one request line. Every failure is converted to an
// error envelope; nothing escapes to the caller.
func (l *Loop) handleLine(line []byte) {
	cmd, err := domain.ParseCommand(line)
	if err != nil {
		l.writeError(err)
		return
	}

	ctx := context.Background()
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	result, err := l.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		log.Printf("ERROR: Command '%s' failed: %v", cmd.Tag(), err)
		l.writeError(err)
		return
	}
	l.writeResult(result)
}

func (l *Loop) writeResult(result interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(SuccessResponse{Result: result}); err != nil {
		log.Printf("ERROR: Encoding response failed: %v", err)
	}
}

func (l *Loop) writeError(cause error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(ErrorResponse{Error: cause.Error()}); err != nil {
		log.Printf("ERROR: Encoding error response failed: %v", err)
	}
}

// Package console is a line-oriented command shell over the serial port.
// Each command becomes a request on app/ctl/<verb>.
package console

import (
	"context"
	"time"

	"github.com/google/shlex"

	"bitdoglab-go/bus"
	"bitdoglab-go/errcode"
	"bitdoglab-go/hal/halcore"
	"bitdoglab-go/services/app"
	"bitdoglab-go/types"
	"bitdoglab-go/x/logx"
	"bitdoglab-go/x/strx"
)

const (
	tag        = "console"
	maxLine    = 96
	defaultTTL = 500 * time.Millisecond
	prompt     = "> "
)

const help = "commands: status | config | press a|b|joy | play 1|2|3 | rgb on|off | help\n"

type Console struct {
	io   halcore.Serial
	conn *bus.Connection
	ttl  time.Duration
}

func New(s halcore.Serial, conn *bus.Connection) *Console {
	return &Console{io: s, conn: conn, ttl: defaultTTL}
}

// Run reads lines until ctx ends or the port fails. Overlong lines are
// discarded whole.
func (c *Console) Run(ctx context.Context) error {
	buf := make([]byte, 32)
	line := make([]byte, 0, maxLine)
	overflow := false
	c.write(prompt)
	for {
		n, err := c.io.RecvSomeContext(ctx, buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logx.Println(tag, "read failed:", err)
			return err
		}
		for _, ch := range buf[:n] {
			switch ch {
			case '\r', '\n':
				if overflow {
					c.write("error line_too_long\n")
				} else if len(line) > 0 {
					c.write(c.Exec(ctx, string(line)))
				}
				if overflow || len(line) > 0 {
					c.write(prompt)
				}
				line, overflow = line[:0], false
			default:
				if len(line) == maxLine {
					overflow = true
					continue
				}
				line = append(line, ch)
			}
		}
	}
}

// Exec runs one command line and returns the text to print.
func (c *Console) Exec(ctx context.Context, line string) string {
	args, err := shlex.Split(line)
	if err != nil {
		return "error " + string(errcode.InvalidParams) + ": " + err.Error() + "\n"
	}
	if len(args) == 0 {
		return ""
	}
	verb := strx.Fold(args[0])
	var payload any
	switch verb {
	case "help", "?":
		return help
	case "status", "config":
	case "press", "play", "rgb":
		if len(args) != 2 {
			return "usage: " + verb + " <arg>\n"
		}
		payload = args[1]
	default:
		return "error " + string(errcode.UnknownCommand) + ": " + verb + "\n"
	}

	rctx, cancel := context.WithTimeout(ctx, c.ttl)
	defer cancel()
	msg, err := c.conn.RequestWait(rctx, c.conn.NewMessage(app.CtlTopic(verb), payload, false))
	if err != nil {
		return "error " + string(errcode.Of(err)) + "\n"
	}
	rep, ok := msg.Payload.(types.Reply)
	if !ok {
		return "error " + string(errcode.InvalidPayload) + "\n"
	}
	if !rep.OK {
		return "error " + rep.Error + "\n"
	}
	return "ok" + Format(rep.Result) + "\n"
}

func (c *Console) write(s string) {
	if s == "" {
		return
	}
	_, _ = c.io.Write([]byte(s))
}

// Package logx is a tagged line logger that avoids fmt so it stays cheap on
// MCU builds. Lines look like "[app] button A pressed".
package logx

import (
	"io"
	"sync"
	"time"

	"bitdoglab-go/x/conv"
	"bitdoglab-go/x/strx"
)

// Output receives every log line. Platform bootstrap swaps it for a UART
// writer; the default goes through the runtime's print builtin.
var Output io.Writer = printWriter{}

// Hex marks a value to be rendered as 8-digit uppercase hex.
type Hex uint32

var mu sync.Mutex

type printWriter struct{}

func (printWriter) Write(p []byte) (int, error) {
	print(string(p))
	return len(p), nil
}

// SetOutput swaps the sink and returns the previous one.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	old := Output
	if w == nil {
		w = printWriter{}
	}
	Output = w
	return old
}

// Println writes "[tag] a b c\n". Supported parts: string, bool, the
// integer kinds, Hex, time.Duration, error. Anything else prints as "?".
func Println(tag string, parts ...any) {
	buf := make([]byte, 0, 64)
	buf = append(buf, '[')
	buf = append(buf, strx.Coalesce(tag, "main")...)
	buf = append(buf, ']')
	for _, p := range parts {
		buf = append(buf, ' ')
		buf = AppendAny(buf, p)
	}
	buf = append(buf, '\n')

	mu.Lock()
	_, _ = Output.Write(buf)
	mu.Unlock()
}

// AppendAny renders one value the way Println does.
func AppendAny(buf []byte, v any) []byte {
	var num [20]byte
	switch x := v.(type) {
	case string:
		return append(buf, x...)
	case bool:
		if x {
			return append(buf, "true"...)
		}
		return append(buf, "false"...)
	case int:
		return append(buf, conv.Itoa(num[:], int64(x))...)
	case int32:
		return append(buf, conv.Itoa(num[:], int64(x))...)
	case int64:
		return append(buf, conv.Itoa(num[:], x)...)
	case uint8:
		return append(buf, conv.Utoa(num[:], uint64(x))...)
	case uint16:
		return append(buf, conv.Utoa(num[:], uint64(x))...)
	case uint32:
		return append(buf, conv.Utoa(num[:], uint64(x))...)
	case uint64:
		return append(buf, conv.Utoa(num[:], x)...)
	case Hex:
		buf = append(buf, "0x"...)
		return append(buf, conv.U32Hex(num[:], uint32(x))...)
	case time.Duration:
		buf = append(buf, conv.Itoa(num[:], x.Milliseconds())...)
		return append(buf, "ms"...)
	case error:
		if x == nil {
			return append(buf, "<nil>"...)
		}
		return append(buf, x.Error()...)
	case nil:
		return append(buf, "<nil>"...)
	default:
		return append(buf, '?')
	}
}

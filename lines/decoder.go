// Package lines turns a stream of byte chunks into complete, trimmed text
// lines. Chunks may split both lines and multi-byte characters at arbitrary
// positions.
package lines

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	unicodeenc "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidState is returned when a Decoder is used after End.
var ErrInvalidState = errors.New("lines: decoder already ended")

const transformBufSize = 4096

// Decoder reassembles lines from chunks of encoded bytes.
//
// A Decoder holds per-stream state and is not safe for concurrent use. Use
// one Decoder per byte stream and feed it chunks in arrival order.
type Decoder struct {
	codec transform.Transformer

	// pending holds source bytes the codec could not consume yet, typically
	// the head of a character split across chunks.
	pending []byte

	// remainder is decoded text not yet terminated by a newline. It never
	// contains '\n' between calls.
	remainder string

	buf   []byte
	ended bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithEncoding sets the text encoding of the byte stream. The default is
// UTF-8.
func WithEncoding(enc encoding.Encoding) Option {
	return func(d *Decoder) {
		if enc != nil {
			d.codec = enc.NewDecoder()
		}
	}
}

// NewDecoder returns a Decoder for a fresh stream.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		codec: unicodeenc.UTF8.NewDecoder(),
		buf:   make([]byte, transformBufSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Lines decodes a complete UTF-8 buffer and returns all of its lines.
func Lines(buf []byte) []string {
	d := NewDecoder()
	out, _ := d.Write(buf)
	tail, _ := d.End()
	return append(out, tail...)
}

// Write decodes the next chunk of the stream and returns the lines it
// completed, in order.
func (d *Decoder) Write(chunk []byte) ([]string, error) {
	if d.ended {
		return nil, ErrInvalidState
	}
	if len(chunk) == 0 {
		return nil, nil
	}
	return d.handle(d.decode(chunk, false)), nil
}

// End flushes the codec and returns the final unterminated line, if any.
// Partial characters left in the codec are emitted as U+FFFD. End must be
// called exactly once per stream.
func (d *Decoder) End() ([]string, error) {
	if d.ended {
		return nil, ErrInvalidState
	}
	d.ended = true

	out := d.handle(d.decode(nil, true))
	if d.remainder != "" {
		out = append(out, trim(d.remainder))
		d.remainder = ""
	}
	return out, nil
}

// Remainder returns the buffered text that has not been terminated by a
// newline yet.
func (d *Decoder) Remainder() string {
	return d.remainder
}

// decode runs the codec over pending bytes plus chunk. Bytes that form an
// incomplete character are kept for the next call unless atEOF is set.
func (d *Decoder) decode(chunk []byte, atEOF bool) string {
	src := chunk
	if len(d.pending) > 0 {
		src = append(d.pending, chunk...)
		d.pending = nil
	}

	var sb strings.Builder
	for {
		nDst, nSrc, err := d.codec.Transform(d.buf, src, atEOF)
		sb.Write(d.buf[:nDst])
		src = src[nSrc:]

		switch {
		case err == nil:
			return sb.String()
		case errors.Is(err, transform.ErrShortDst):
			continue
		case errors.Is(err, transform.ErrShortSrc) && !atEOF:
			d.pending = append([]byte(nil), src...)
			return sb.String()
		default:
			// Decoding never fails; whatever the codec refused becomes a
			// single replacement character.
			if len(src) > 0 {
				sb.WriteRune(utf8.RuneError)
			}
			d.codec.Reset()
			return sb.String()
		}
	}
}

func (d *Decoder) handle(decoded string) []string {
	newlineIdx := strings.IndexByte(decoded, '\n')
	data := d.remainder + decoded
	if newlineIdx < 0 {
		d.remainder = data
		return nil
	}
	newlineIdx += len(d.remainder)

	var out []string
	prev := 0
	for {
		out = append(out, trim(data[prev:newlineIdx]))
		prev = newlineIdx + 1
		next := strings.IndexByte(data[prev:], '\n')
		if next < 0 {
			break
		}
		newlineIdx = prev + next
	}
	d.remainder = data[prev:]
	return out
}

// trim strips leading and trailing white space, including a trailing '\r'
// and the byte order mark. NEL (U+0085) is not white space here.
func trim(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return (unicode.IsSpace(r) && r != '\u0085') || r == '\uFEFF'
	})
}

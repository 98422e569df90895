// Package trigraph converts between ISO C trigraphs (??( ??) ...) and the
// characters they stand for. It is a context-free substitution: literals and
// comments are not treated specially.
package trigraph

import (
	"bufio"
	"errors"
	"io"
)

const (
	trigraphs = "()<>!'-=/"
	realChars = "[]{}|^~#\\"
)

var (
	encodeTable [256]byte
	decodeTable [256]byte
)

func init() {
	for i := 0; i < len(trigraphs); i++ {
		encodeTable[realChars[i]] = trigraphs[i]
		decodeTable[trigraphs[i]] = realChars[i]
	}
}

// Encode writes r to w with every character that has a trigraph replaced by it.
func Encode(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	for {
		c, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if t := encodeTable[c]; t != 0 {
			bw.WriteString("??")
			bw.WriteByte(t)
			continue
		}
		bw.WriteByte(c)
	}
	return bw.Flush()
}

// Decode writes r to w with every trigraph replaced by its character. A "??"
// directly after a backslash is left alone, as is a "??" at end of input.
func Decode(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)
	var prev byte
	for {
		c, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if c == '?' && prev != '\\' {
			next, perr := br.Peek(2)
			if len(next) == 2 && next[0] == '?' {
				if real := decodeTable[next[1]]; real != 0 {
					_, _ = br.Discard(2)
					bw.WriteByte(real)
					prev = real
					continue
				}
			}
			if perr != nil && !errors.Is(perr, io.EOF) && !errors.Is(perr, bufio.ErrBufferFull) {
				return perr
			}
		}
		bw.WriteByte(c)
		prev = c
	}
	return bw.Flush()
}

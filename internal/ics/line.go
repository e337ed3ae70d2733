package ics

import (
	"bufio"
	"io"
)

// maxPhysLine bounds one physical feed line. Longer lines are truncated, not
// rejected: every field we keep is display-bound and far smaller than this.
const maxPhysLine = 1024

// LineReader turns a raw byte stream into unfolded logical calendar lines.
//
// Physical lines split on LF; a trailing CR is stripped. A physical line
// starting with a space or tab is a folded continuation (RFC 5545 §3.1): its
// first byte is dropped and the rest is appended to the previous logical
// line. The reader holds at most one logical line plus one physical line in
// memory, so cost is independent of feed size.
type LineReader struct {
	br      *bufio.Reader
	logical []byte
	have    bool
	done    bool
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{br: bufio.NewReader(r)}
}

// Next returns the next logical line. The second result is false once the
// stream is exhausted and no partial line remains; the final accumulated
// logical line (if any) is emitted before that.
func (lr *LineReader) Next() (string, bool) {
	for {
		phys, ok := lr.readPhys()
		if !ok {
			if lr.have {
				lr.have = false
				out := string(lr.logical)
				lr.logical = lr.logical[:0]
				return out, true
			}
			return "", false
		}

		if len(phys) > 0 && (phys[0] == ' ' || phys[0] == '\t') {
			// Continuation: drop the fold marker, append the rest.
			lr.logical = append(lr.logical, phys[1:]...)
			lr.have = true
			continue
		}

		if lr.have {
			out := string(lr.logical)
			lr.logical = append(lr.logical[:0], phys...)
			return out, true
		}
		lr.logical = append(lr.logical[:0], phys...)
		lr.have = true
	}
}

// readPhys reads one physical line without its terminator. Bytes beyond
// maxPhysLine-1 are discarded. Returns false only at end of stream with no
// bytes pending.
func (lr *LineReader) readPhys() ([]byte, bool) {
	if lr.done {
		return nil, false
	}

	var buf []byte
	read := false
	for {
		b, err := lr.br.ReadByte()
		if err != nil {
			// EOF and read errors both end the stream; whatever was
			// accumulated on this line is still a line.
			lr.done = true
			if !read {
				return nil, false
			}
			break
		}
		read = true
		if b == '\n' {
			break
		}
		if len(buf) < maxPhysLine-1 {
			buf = append(buf, b)
		}
	}

	if n := len(buf); n > 0 && buf[n-1] == '\r' {
		buf = buf[:n-1]
	}
	return buf, true
}

package qgrepcode

import "io"

// Reporter writes a batch of match records in some output format.
type Reporter interface {
	Write(w io.WriteCloser, records []MatchRecord) error
}

package ingestion

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/poiesic/itempipe/core"
)

const maxLineSize = 4 << 20

// DecodeRecords streams JSON records from r, one object per line.
// Blank lines are skipped. A line that does not decode yields an error
// wrapping ErrMalformedRecord and decoding continues with the next line;
// a read error ends the sequence.
func DecodeRecords(r io.Reader) iter.Seq2[*core.Record, error] {
	return func(yield func(*core.Record, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		line := 0
		for scanner.Scan() {
			line++
			data := bytes.TrimSpace(scanner.Bytes())
			if len(data) == 0 {
				continue
			}

			var record core.Record
			if err := json.Unmarshal(data, &record); err != nil {
				if !yield(nil, fmt.Errorf("%w: line %d: %v", ErrMalformedRecord, line, err)) {
					return
				}
				continue
			}
			if !yield(&record, nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(nil, fmt.Errorf("read records: %w", err))
		}
	}
}

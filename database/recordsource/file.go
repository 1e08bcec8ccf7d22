package recordsource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gnemet/gridengine"
)

// File serves records from a JSON array on disk. The file is read on every call so
// edits show up without a restart.
type File string

func (f File) Records(context.Context) ([]gridengine.Record, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, err
	}
	return DecodeJSON(data)
}

// DecodeJSON decodes a JSON array of objects into records.
func DecodeJSON(data []byte) ([]gridengine.Record, error) {
	var records []gridengine.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	if records == nil {
		records = []gridengine.Record{}
	}
	return records, nil
}

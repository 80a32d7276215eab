package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// Tail returns the last n entries of an audit log, oldest first.
func Tail(path string, n int) ([]AuditEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, append([]byte(nil), scanner.Bytes()...))
		if n > 0 && len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}

	entries := make([]AuditEntry, 0, len(lines))
	for i, line := range lines {
		var e AuditEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("parse audit entry %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

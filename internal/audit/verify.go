package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
)

// VerifyResult holds the outcome of a hash chain verification.
type VerifyResult struct {
	Valid     bool   `json:"valid"`
	Lines     int    `json:"lines"`
	Permitted int    `json:"permitted"`
	Rejected  int    `json:"rejected"`
	Error     string `json:"error,omitempty"`
	ErrorLine int    `json:"error_line,omitempty"`
}

// Verify walks a JSONL audit log and validates the hash chain.
// It stops at the first broken link or unknown decision.
func Verify(path string) VerifyResult {
	f, err := os.Open(path)
	if err != nil {
		return VerifyResult{Error: fmt.Sprintf("open: %v", err)}
	}
	defer f.Close()

	var result VerifyResult
	expected := GenesisHash
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		result.Lines++
		line := scanner.Bytes()

		var entry AuditEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return fail(result, fmt.Sprintf("parse error: %v", err))
		}
		if entry.PrevHash != expected {
			if result.Lines == 1 {
				return fail(result, fmt.Sprintf("first entry prev_hash is %q, expected genesis hash", entry.PrevHash))
			}
			return fail(result, fmt.Sprintf("hash mismatch: expected %s, got %s", expected, entry.PrevHash))
		}

		switch entry.Decision {
		case "permitted":
			result.Permitted++
		case "rejected":
			result.Rejected++
		default:
			return fail(result, fmt.Sprintf("unknown decision %q", entry.Decision))
		}

		expected = HashLine(line)
	}

	if err := scanner.Err(); err != nil {
		return VerifyResult{Error: fmt.Sprintf("scan: %v", err)}
	}

	result.Valid = true
	return result
}

func fail(r VerifyResult, msg string) VerifyResult {
	return VerifyResult{
		Lines:     r.Lines,
		Permitted: r.Permitted,
		Rejected:  r.Rejected,
		Error:     msg,
		ErrorLine: r.Lines,
	}
}

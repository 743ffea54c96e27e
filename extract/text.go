package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/quillon/finreport/recordset"
)

// extractTXT wraps a plain text file into a single-row content RecordSet.
func extractTXT(path string) (*recordset.RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("empty file")
	}
	return contentRecordSet(text)
}

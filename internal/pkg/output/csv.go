package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

// renderRulesCSV writes one row per rule with its module counts.
func renderRulesCSV(rules []models.Rule) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "name", "events", "conditions", "actions", "sequential"}); err != nil {
		return nil, err
	}

	for _, rule := range rules {
		sequential := ""
		if rule.SequentialProcessing != nil {
			sequential = strconv.FormatBool(*rule.SequentialProcessing)
		}
		row := []string{
			rule.ID,
			rule.Name,
			strconv.Itoa(len(rule.Events)),
			strconv.Itoa(len(rule.Conditions)),
			strconv.Itoa(len(rule.Actions)),
			sequential,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

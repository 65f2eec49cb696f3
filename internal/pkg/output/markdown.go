package output

import (
	"bytes"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

func renderMergedMarkdown(result *models.MergedResult) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Container analysis\n\n")
	fmt.Fprintf(&buf, "Start URL: %s\n\n", result.StartURL)
	fmt.Fprintf(&buf, "- Scripts discovered: %s\n", humanize.Comma(int64(len(result.Scripts))))
	fmt.Fprintf(&buf, "- Rules: %s\n", humanize.Comma(int64(len(result.Container.Rules))))
	fmt.Fprintf(&buf, "- Data elements: %s\n", humanize.Comma(int64(len(result.Container.DataElements))))
	fmt.Fprintf(&buf, "- Extensions: %s\n\n", humanize.Comma(int64(len(result.Container.Extensions))))

	buf.WriteString("## Scripts\n\n")
	buf.WriteString("| URL | Status | Rules |\n|---|---|---|\n")
	for _, record := range result.Scripts {
		status := "ok"
		if !record.Success {
			status = "failed: " + record.Error
		}
		fmt.Fprintf(&buf, "| %s | %s | %d |\n", record.URL, status, record.RuleCount)
	}

	if len(result.Container.Rules) > 0 {
		buf.WriteString("\n## Rules\n\n")
		buf.WriteString("| ID | Name | Events | Conditions | Actions |\n|---|---|---|---|---|\n")
		for _, rule := range result.Container.Rules {
			fmt.Fprintf(&buf, "| %s | %s | %d | %d | %d |\n",
				rule.ID, rule.Name, len(rule.Events), len(rule.Conditions), len(rule.Actions))
		}
	}

	return buf.Bytes()
}

func renderExtractionMarkdown(result *models.ExtractionResult) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Container analysis\n\n")
	fmt.Fprintf(&buf, "Script: %s\n\n", result.URL)
	fmt.Fprintf(&buf, "- Rules: %s\n", humanize.Comma(int64(len(result.Container.Rules))))
	fmt.Fprintf(&buf, "- Data elements: %s\n", humanize.Comma(int64(len(result.Container.DataElements))))
	fmt.Fprintf(&buf, "- Extensions: %s\n", humanize.Comma(int64(len(result.Container.Extensions))))

	if len(result.Container.Rules) > 0 {
		buf.WriteString("\n## Rules\n\n")
		buf.WriteString("| ID | Name | Events | Conditions | Actions |\n|---|---|---|---|---|\n")
		for _, rule := range result.Container.Rules {
			fmt.Fprintf(&buf, "| %s | %s | %d | %d | %d |\n",
				rule.ID, rule.Name, len(rule.Events), len(rule.Conditions), len(rule.Actions))
		}
	}

	return buf.Bytes()
}

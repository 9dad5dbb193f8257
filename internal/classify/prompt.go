package classify

import (
	"fmt"
	"strings"

	"github.com/spiffcs/issuecost/internal/model"
)

const noDescription = "No description provided"

// BuildPrompt renders the classification request for one issue.
func BuildPrompt(issue model.Issue) string {
	body := issue.BodyText()
	if body == "" {
		body = noDescription
	}

	labels := strings.Join(issue.Labels, ", ")
	if labels == "" {
		labels = "None"
	}

	var sb strings.Builder
	sb.WriteString("Analyze this GitHub issue and estimate its complexity and cost.\n\n")
	sb.WriteString(fmt.Sprintf("Issue Title: %s\n", issue.Title))
	sb.WriteString(fmt.Sprintf("Issue Body: %s\n", body))
	sb.WriteString(fmt.Sprintf("Labels: %s\n", labels))
	sb.WriteString(fmt.Sprintf("Comments Count: %d\n", issue.CommentCount))

	sb.WriteString("\nConsider:\n")
	sb.WriteString("- Technical complexity from the description\n")
	sb.WriteString("- Number of acceptance criteria or requirements mentioned\n")
	sb.WriteString("- Whether it's a bug fix (usually lower cost) vs feature (higher cost)\n")
	sb.WriteString("- Presence of detailed specs vs vague requirements\n")
	sb.WriteString("- Labels that indicate scope (enhancement, bug, feature, etc.)\n")

	sb.WriteString("\nRespond with ONLY a JSON object in this exact format:\n")
	sb.WriteString("{\n")
	sb.WriteString(`  "complexity": "low" | "medium" | "high",` + "\n")
	sb.WriteString(`  "reasoning": "Brief explanation of your assessment"` + "\n")
	sb.WriteString("}")

	return sb.String()
}

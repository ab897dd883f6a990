package ai

import (
	"fmt"
	"sort"
	"strings"
)

// formatCounts renders a frequency map as a stable key:value list.
func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %d", k, counts[k])
	}
	return strings.Join(parts, ", ")
}

// ColumnSummaryPrompt asks for a short interpretation of one column's
// value distribution.
func ColumnSummaryPrompt(column string, counts map[string]int) string {
	return fmt.Sprintf(`You are analyzing the '%s' column in returned device data.

Data: %s

Focus on the most frequent values. Do not list counts. Instead:
- Identify the dominant themes and unusual entries.
- Interpret what these patterns show about customer behavior.
- Relate trends to customer behavior or product quality.

Be sharp, insightful, and under 60 words. Avoid repeating the data.
Avoid exaggeration or unsupported speculation. Keep it balanced and neutral.`,
		column, formatCounts(counts))
}

// ComparisonSummaryPrompt asks for a joint interpretation of two
// columns' value distributions.
func ComparisonSummaryPrompt(column1, column2 string, counts1, counts2 map[string]int) string {
	return fmt.Sprintf(`You are analyzing the '%s' column and '%s' column in data.

Data1: %s
Data2: %s

Focus on the most frequent and unique values. Do not list counts. Instead:
- Identify the dominant themes and unusual entries.
- Interpret what these patterns show about customer behavior.
- Suggest potential causes, quality or process issues, or red flags worth investigating.
- If possible, link trends to customer behavior or product quality.

Be sharp, insightful, and under 100 words. Avoid repeating the data.`,
		column1, column2, formatCounts(counts1), formatCounts(counts2))
}

// ReturnsSummaryPrompt asks for an interpretation of the top value in
// each returns-analysis column.
func ReturnsSummaryPrompt(topValues map[string]string) string {
	var details strings.Builder
	keys := make([]string, 0, len(topValues))
	for k := range topValues {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, column := range keys {
		details.WriteString(fmt.Sprintf("**%s**: %s\n", column, topValues[column]))
	}

	return fmt.Sprintf(`You are analyzing returned device data from a smartphone company. Below is the top occurrence in each relevant column:

%s
Write a professional, insightful, and concise summary that:
- Clearly interprets why these top issues are occurring based on the categories.
- Connects the data to potential underlying causes.
- Identifies any patterns or systemic weaknesses.
- Recommends specific, actionable solutions.

Limit your answer to 120 words and ground it in the provided data.`, details.String())
}

// CorrelationSummaryPrompt asks for a qualitative reading of the
// churn correlation table.
func CorrelationSummaryPrompt(correlations map[string]float64) string {
	keys := make([]string, 0, len(correlations))
	for k := range correlations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %.4f", k, correlations[k])
	}

	return "Pretend you are a data scientist. As a test, briefly summarize this dictionary " +
		"while avoiding exact numbers and noting key features about parameter correlation: " +
		strings.Join(parts, ", ")
}

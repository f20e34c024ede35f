// Package summarize turns the extracted financial pipe tables into a
// plain-English narrative via a chat-completion model.
package summarize

import "strings"

// Prompt is a system/user message pair ready for the model.
type Prompt struct {
	System string
	User   string
}

var legalKeywords = []string{"legal", "attorney", "law", "counsel"}

const systemMessage = "You are a senior financial analyst preparing a plain-English summary for HOA homeowners. " +
	"The HOA collects most income via a single annual assessment, so your focus is on spend " +
	"and budget tracking over the year rather than recurring monthly income. " +
	"Your job is to interpret the financial statements, identify trends, and communicate clearly. " +
	"Do not make up numbers that are not present in the tables. If a value is missing, state that it " +
	"is not available. Your output must always include, as the final section, a summary of all legal spend."

const taskMessage = "## TASK\n" +
	"The Income Statement and Balance Sheet provided below are already aggregated by major category " +
	"(for example: Assets, Liabilities, Owners' Equity, major revenue and expense groupings).\n\n" +
	"Assume HOA income primarily comes from a single annual `Assessment Revenue` event. " +
	"Using ONLY these aggregated views, provide a clear, plain-English financial summary that includes:\n" +
	"1. A summary of **monthly spend** and **monthly income against budget** for the period.\n" +
	"   - Focus on how current-month expenses compare to the monthly or year-to-date budget.\n" +
	"2. Commentary on the **largest expense categories** for the month.\n" +
	"   - Show at least three categories.\n" +
	"   - Show at most five categories.\n" +
	"   - Only show categories when the monthly spend exceeds 5% of the category's year-to-date budget (for example, a column labeled YTD Budget or YTD BUDGET PERIOD).\n" +
	"   - If fewer than three categories exceed 5% of the YTD Budget Period, show all that meet the threshold and explicitly note that there are fewer than three.\n" +
	"3. A summary comparing **actual balances against the budget** at the major-category level.\n" +
	"4. An assessment of whether **current funding is sufficient to meet forecasted spend for the year**.\n" +
	"   - Provide a confidence rating: High / Medium / Low and explain your reasoning.\n" +
	"5. Compute and report the percentage of `Assessment Revenue` **YTD** against its `Annual Budget`:\n" +
	"   - Identify the line(s) for `Assessment Revenue` (YTD and Annual Budget).\n" +
	"   - Report `Assessment Revenue YTD / Assessment Revenue Annual Budget` as a percentage.\n" +
	"   - Comment on whether this is ahead of, on track with, or behind expectations.\n" +
	"6. Check whether `Delinquent Assessment Revenue` exceeds **4%** of the `Assessment Revenue` `Annual Budget`:\n" +
	"   - If `Delinquent Assessment Revenue > 4% of Assessment Revenue Annual Budget`, " +
	"explicitly call this out as a concern and briefly explain the risk.\n" +
	"   - If it is at or below 4%, state that it is within acceptable bounds.\n" +
	"7. Summarize monthly spend from `Total Reserve Expenditure`\n" +
	"   - when there is no spend explicitly state no spending this month\n" +
	"8. You must comment on legal fees and legal spend (or the absence of it).\n" +
	"   - Always place the **Legal Spend Summary** as the final section of the output.\n\n" +
	"When referencing these specific lines, look for labels containing:\n" +
	"- `Assessment Revenue`\n" +
	"- `Delinquent Assessment Revenue`\n" +
	"- `YTD`\n" +
	"- `Annual Budget`\n"

// BuildPrompt constructs the summary prompt from the income statement and
// balance sheet markdown. When trim is set, lines mentioning legal matters
// are pre-filtered into an emphasis section. legalDetails, when non-empty,
// is appended as homeowner-submitted context.
func BuildPrompt(mdIncome, mdBalance, period string, trim bool, legalDetails string) Prompt {
	parts := []string{
		"Period: " + period,
		taskMessage,
		"## Income Statement (Markdown, aggregated by major category)\n" + mdIncome,
	}

	if mdBalance != "" {
		parts = append(parts, "## Balance Sheet (Markdown, aggregated by major category)\n"+mdBalance)
	}

	if trim {
		incomeLegal := relevantLines(mdIncome, legalKeywords, 200)
		balanceLegal := relevantLines(mdBalance, legalKeywords, 200)
		if incomeLegal != "" || balanceLegal != "" {
			section := []string{"## Pre-filtered Legal Line Items (for emphasis)"}
			if incomeLegal != "" {
				section = append(section, "### Income Statement Legal Lines\n"+incomeLegal)
			}
			if balanceLegal != "" {
				section = append(section, "### Balance Sheet Legal Lines\n"+balanceLegal)
			}
			parts = append(parts, strings.Join(section, "\n"))
		}
	}

	if legalDetails != "" {
		parts = append(parts, "## Homeowner-Submitted Legal Details\n"+legalDetails)
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return Prompt{
		System: systemMessage,
		User:   strings.Join(nonEmpty, "\n\n"),
	}
}

// relevantLines returns lines containing any keyword, case-insensitively,
// capped at maxLines.
func relevantLines(markdown string, keywords []string, maxLines int) string {
	var selected []string
	for _, line := range strings.Split(markdown, "\n") {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				selected = append(selected, line)
				break
			}
		}
		if len(selected) >= maxLines {
			break
		}
	}
	return strings.Join(selected, "\n")
}

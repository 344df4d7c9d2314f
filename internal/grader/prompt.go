package grader

import "fmt"

const systemPrompt = "You are a fair, consistent teaching assistant. " +
	"Grade student work strictly by the rubric. Be constructive and specific."

func userPrompt(rubric, submission string) string {
	return fmt.Sprintf(`
Rubric:
"""%s"""


Student Submission (may be truncated):
"""%s"""

Return a JSON object with:
- "feedback": string with concrete, actionable comments
- "grade": integer 0-100
`, rubric, submission)
}

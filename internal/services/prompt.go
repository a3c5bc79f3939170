package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/interview-builder/internal/models"
)

// maxCandidatesInPrompt bounds the roster summary so a large import does not
// crowd out the job description.
const maxCandidatesInPrompt = 20

// maxResumeExcerpt is how much of each resume is quoted in the prompt.
const maxResumeExcerpt = 300

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildQuestionsPrompt creates the prompt for interview question generation.
func (pb *PromptBuilder) BuildQuestionsPrompt(name, objective string, count int, documentContext string, candidates []models.Candidate) string {
	if strings.TrimSpace(documentContext) == "" {
		documentContext = "No job description was provided."
	}

	return fmt.Sprintf(`You are an expert interviewer preparing a structured first-round interview.

INTERVIEW NAME:
%s

INTERVIEW OBJECTIVE:
%s

JOB DESCRIPTION / CONTEXT:
%s

CANDIDATES:
%s

Your task is to write exactly %d open-ended interview questions that assess the candidates against the objective.

Guidelines:
- Each question must stand on its own and be answerable in two to three minutes.
- Prefer questions about concrete past experience over hypotheticals.
- Do not ask about protected characteristics or personal information.
- Do not number the questions.

Also write a short description (under 50 words) of the interview that can be shown to the respondent. Do not mention the candidates by name.

Return your response in the following JSON format:
{
  "questions": [
    {"question": "<question text>"}
  ],
  "description": "<interview description>"
}`,
		name, objective, documentContext, pb.summarizeCandidates(candidates), count)
}

func (pb *PromptBuilder) summarizeCandidates(candidates []models.Candidate) string {
	if len(candidates) == 0 {
		return "No candidate list was provided."
	}

	var parts []string
	for i, c := range candidates {
		if i == maxCandidatesInPrompt {
			parts = append(parts, fmt.Sprintf("... and %d more", len(candidates)-maxCandidatesInPrompt))
			break
		}

		line := fmt.Sprintf("- %s", c.Name)
		if resume := strings.ReplaceAll(CleanText(c.ResumeText), "\n", " "); resume != "" {
			line += ": " + truncateRunes(resume, maxResumeExcerpt)
		}
		parts = append(parts, line)
	}

	return strings.Join(parts, "\n")
}

// BuildRetrievalQuery creates the query used to pull job description chunks
// relevant to the interview.
func (pb *PromptBuilder) BuildRetrievalQuery(name, objective string) string {
	return fmt.Sprintf("Responsibilities, requirements and qualifications for %s. %s", name, objective)
}

// FormatRAGContext joins retrieved chunks in document order.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("--- Excerpt %d (Score: %.2f) ---\n%s",
			i+1, result.Score, strings.TrimSpace(result.Text)))
	}

	return strings.Join(parts, "\n\n")
}

func truncateRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

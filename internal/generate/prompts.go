package generate

import (
	"fmt"
	"strings"
)

// QuestionType is the kind of discussion question an activity asks.
type QuestionType string

const (
	Comprehension QuestionType = "comprehension"
	Comparison    QuestionType = "comparison"
	Analysis      QuestionType = "analysis"
)

// QuestionTypes is the generation order used for a full set.
var QuestionTypes = []QuestionType{Comprehension, Comparison, Analysis}

var instructions = map[QuestionType]string{
	Comprehension: "Create a comprehension question that asks students to identify and explain key facts, details, or concepts from the reading. Focus on WHAT happened or WHAT the text describes.",
	Comparison:    "Create a comparison question that asks students to identify similarities and differences between two or more things discussed in the reading (e.g. regions, groups, causes, effects).",
	Analysis:      "Create an analysis question that asks students to explore WHY something happened, evaluate causes and effects, or make connections between ideas in the reading.",
}

// ParseQuestionType validates a type name. Empty means Comprehension.
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return Comprehension, nil
	}
	if _, ok := instructions[t]; !ok {
		return "", fmt.Errorf("unknown question type: %s (want comprehension, comparison or analysis)", s)
	}
	return t, nil
}

// Instruction tells the model what kind of question to write.
func (t QuestionType) Instruction() string {
	return instructions[t]
}

// Tag is the Meta tag written into generated documents.
func (t QuestionType) Tag() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

// DefaultThumbnail is used when a source has no image of its own.
const DefaultThumbnail = "/assets/placeholder.jpg"

// SystemPrompt frames every generation call.
const SystemPrompt = `You are an educational content designer. Given a reading text, you generate a complete activity markdown file following the exact template format you are given.

Output ONLY the markdown file content. Do not explain what you are doing, do not wrap the output in code fences, and do not include HTML comments from the template.`

// userPromptTemplate takes, in order: template, reading, title, content reference,
// question type, instruction, type, tag, content reference, title, thumbnail.
const userPromptTemplate = `TEMPLATE FORMAT:
%s

READING TEXT:
%s

TITLE: %s
PDF PATH: %s

QUESTION TYPE: %s
%s

Generate a complete activity markdown file. Requirements:

LENGTH & STYLE (follow these examples closely):
- Question: ONE short sentence, ~10-15 words max. Example: "How did the drought affect forests and other non-farming communities across Canada?"
- Character opinions: 2-3 short sentences each, ~25-40 words, written in FIRST PERSON (the character speaking as "I").
- Initial messages: 1-2 casual short sentences, ~15-25 words. Jamie example: "Hi! Thanks so much for helping us! I keep thinking about the poor dehydrated crops... but Thomas keeps shutting it down." Thomas example: "Jamie keeps mentioning farms, but I don't think that's relevant. I need some strong evidence. What did the reading say?"
- Keep ALL text conversational, brief, and age-appropriate for students.

CONTENT:
- The question MUST be of type "%s" and follow the instruction above
- Use tag: %s in the Meta section
- Set the pdf field in frontmatter to exactly: "%s"
- Set the title in frontmatter to exactly: "%s"
- Identify 5-7 key themes/facts students should address for THIS specific question
- Write realistic character positions (Jamie = enthusiastic but incomplete/off-track, Thomas = analytical but incomplete; they should DISAGREE or have different incomplete perspectives)
- Write natural opening messages: Jamie should be friendly and bring up something slightly off-topic, Thomas should be skeptical and demand evidence
- Include relevant grading keywords (keywords_content for themes, keywords_evidence for specific facts/numbers)
- Generate a ## Rubric section with 4 subsections (Content, Understanding, Connections, Evidence), each with level_1 through level_5 descriptors specific to THIS question and reading. Use measurable criteria (e.g. "Mentions 1-2 of the 7 themes" not "Shows some understanding")
- Keep the checklist as-is (analogy, example, story)
- Use the exact markdown format from the template (YAML frontmatter + sections)
- Use this exact thumbnail path: "%s"

Output ONLY the markdown file content, nothing else.`

// Request describes one activity to generate.
type Request struct {
	Reading    string
	Title      string
	ContentRef string // PDF path or video embed URL
	Thumbnail  string
	Type       QuestionType
	Template   string
}

// BuildPrompt renders the user prompt for r.
func BuildPrompt(r Request) string {
	thumbnail := r.Thumbnail
	if thumbnail == "" {
		thumbnail = DefaultThumbnail
	}
	qt := r.Type
	if qt == "" {
		qt = Comprehension
	}
	return fmt.Sprintf(
		userPromptTemplate,
		r.Template,
		r.Reading,
		r.Title,
		r.ContentRef,
		qt,
		qt.Instruction(),
		qt,
		qt.Tag(),
		r.ContentRef,
		r.Title,
		thumbnail,
	)
}

// CleanMarkdown strips code fences the model wrapped its answer in.
func CleanMarkdown(output string) string {
	output = strings.ReplaceAll(output, "```markdown", "")
	output = strings.ReplaceAll(output, "```", "")
	return strings.TrimSpace(output)
}

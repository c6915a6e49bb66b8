package prompt

import "fmt"

const extractionInstructions = `Analyze the provided image, which contains one or more technical or aptitude questions. For each question, first determine the question type from the options: "mcq", "run-code", "coding", or "unknown". Then extract the relevant information and format it strictly as JSON according to the structure defined below. Infer "subject" (e.g. OS, DBMS, Java, Aptitude) and "language" (e.g. Java, C++, Python, C) where possible from the context. If you can identify a question number (e.g. Q1, Question 2), include it in the response.

Respond with a JSON array containing one object per question found:

[
  {
    "type": "mcq" | "run-code" | "coding" | "unknown",
    "number": 1,
    "text": "full question text, including any code shown",
    "options": ["answer choice A", "answer choice B"],
    "subject": "inferred subject",
    "language": "programming language if relevant"
  }
]

Omit "number" when no question number is visible. Include "options" only for mcq questions. Return only JSON, with no surrounding commentary. If the image contains no questions, return [].`

// Extraction returns the instructions sent to the vision model with
// every uploaded image.
func Extraction() string {
	return extractionInstructions
}

const solverTemplate = `You're an expert problem solver and programmer. Think deeply and act like you're solving a real-world problem in a coding interview or a competitive programming contest.

You are given a problem described in the JSON format below. Your task is to **understand the problem** from this structured data and generate a **detailed, human-readable version of the question**, clearly explaining:

1. The **type of question** (e.g., coding, MCQ, run-code),
2. The **problem statement** in a clean and easy-to-read way,
3. The **function signature or expected output** if applicable,
4. The **constraints, input and output formats**, and
5. Any **examples/test cases** if given.

Use the information in the JSON as your only source. Be precise, concise, and clear. Think like someone preparing the problem for a coding platform or exam.

Here is the JSON:


%s


Now, give me working solution for this problem, for coding if language is given, else give me solution in c++`

// Solver renders the copy-ready prompt a user can paste into any chat
// model to get the extracted questions solved. recordsJSON is the
// serialized question records for one image.
func Solver(recordsJSON string) string {
	return fmt.Sprintf(solverTemplate, recordsJSON)
}

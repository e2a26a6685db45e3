package prompt

const interviewQuestionsTmpl = `
Generate 5 interview questions for a {{.jobPosition}} role:
- Job Description: {{.jobDescription}}
- Experience Level: {{if .yearsOfExperience}}{{.yearsOfExperience}}{{else}}Not specified{{end}}
- Resume Context: {{if .resumeText}}{{.resumeText}}{{else}}No additional context{{end}}

Requirements:
1. Create unique, role-specific questions
2. Include mix of technical and behavioral questions
3. Format strictly as JSON array with 'Question' and 'Answer' keys
4. Answers should demonstrate professional insight
`

const codingQuestionsTmpl = `
Generate 3 coding questions related to the topic: {{.topic}}
{{- if .difficulty}}
Target difficulty level: {{.difficulty}}
{{- end}}

For each question, provide:
1. Title
2. Description
3. Examples (input, output, and explanation)
4. difficulty level
5. Constraints
6. hints
7. Solution in C++ and Java
8. Explanation of the solution

Format the response as a JSON array with the following structure:
[
  {
    "title": "Question Title",
    "description": "Question description",
    "examples": [
      {
        "input": "Example input",
        "output": "Example output",
        "explanation": "Explanation of the example"
      }
    ],
    "difficulty": "Medium",
    "constraints": ["Constraint 1", "Constraint 2"],
    "hints": ["Hint 1", "Hint 2"],
    "solution": {
      "cpp": "C++ code here",
      "java": "Java code here"
    },
    "explanation": "Explanation of the solution"
  }
]

Ensure that the generated questions are unique, challenging, and relevant to the given topic.
`

const answerFeedbackTmpl = `
You are an expert interview coach. Please analyze the following interview response and provide feedback.

Question: {{.question}}
Answer: {{.answer}}

Provide your response in the following JSON format:
{
  "rating": <number between 1-10>,
  "feedback": "<constructive feedback>"
}

Keep the feedback concise but informative, focusing on both strengths and areas for improvement.
Do not include any additional text or formatting outside of the JSON structure.
`

const codeFeedbackTmpl = `
You are an expert coding interviewer and technical assessor. Please analyze the following coding solution and provide solid detailed feedback.

Question: {{.question}}
Code Solution:
{{.code}}
{{if .explanation}}Candidate's Explanation: {{.explanation}}{{end}}

Provide your response in the following JSON format:
{
  "rating": <number between 1-10>,
  "technicalAccuracy": <number between 1-10>,
  "codeQuality": <number between 1-10>,
  "feedback": {
    "strengths": ["<string>", "<string>"],
    "improvements": ["<string>", "<string>"],
    "complexityAnalysis": "<string>",
    "bestPractices": ["<string>", "<string>"]
  }
}

Focus on:
1. Correctness of the solution
2. Time and space complexity
3. Code organization and readability
4. Use of appropriate data structures
5. Error handling and edge cases
6. Coding best practices

Keep the feedback professional and constructive. Do not include any additional text outside of the JSON structure.
Ensure that bestPractices is provided as an array of strings.
`

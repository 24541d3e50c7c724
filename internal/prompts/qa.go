package prompts

import "fmt"

const datasetSQLTemplate = `You are an expert data analyst and a helpful assistant. Your primary task is to analyze the user's question and determine if it can be answered using the provided dataset information.
Question: %s
Dataset Information: %s

Based on your analysis of the user's question, you must choose one of the following two options:

**Option 1: The question is related to the dataset.**
- If the question can be answered by querying the provided dataset, you must generate the appropriate SQL query.
- The SQL query must be compatible with sqlite3 syntax.
- Your response MUST follow this exact format:
text_to_sql: The SQL query that can be used to retrieve the answer from the dataset. Not include any explanation or additional text.

**Option 2: The question is NOT related to the dataset.**
- If the question is a greeting, a question about yourself, or any other topic not related to the dataset, you should provide a direct and helpful answer without generating a SQL query.
- Your response MUST follow this exact format:
answer_without_sql: A direct and helpful answer to the user's question.

IMPORTANT: Always respond in ENGLISH only.`

// DatasetSQL builds the text-to-SQL routing prompt. datasetInfo is the
// serialized schema and sample rows for every loaded table.
func DatasetSQL(question, datasetInfo string) string {
	return fmt.Sprintf(datasetSQLTemplate, question, datasetInfo)
}

const datasetAnswerTemplate = `You are an expert data analyst. Given the following question, provide a detailed and accurate answer based on the dataset provided.
Question: %s
Retrived Query: %s

You need to generate the final answer to answer the question.
Please ensure that your response is clear, concise, and directly addresses the question using insights derived from the dataset.
The response should be in the following format:
final_answer: The final answer to the question based on the query result.

IMPORTANT: Always respond in ENGLISH, regardless of the language in the data. Please humanize the answer and avoid being too technical. Don't change the key "final_answer".`

// DatasetAnswer builds the final-answer prompt from an executed query result.
func DatasetAnswer(question, queryResult string) string {
	return fmt.Sprintf(datasetAnswerTemplate, question, queryResult)
}

const documentQATemplate = `You are a helpful assistant that answers questions based on document content.

DOCUMENT CONTEXT:
%s

USER QUESTION: %s

Instructions:
- Answer based ONLY on the provided context
- If the answer is not in the context, say "I cannot find that information in the document"
- Cite specific sections when possible
- Be concise but comprehensive

Answer:`

// DocumentQA builds the retrieval-grounded document answering prompt.
func DocumentQA(context, question string) string {
	return fmt.Sprintf(documentQATemplate, context, question)
}

const youtubeQATemplate = `You are a helpful assistant that answers questions based on YouTube video transcripts.

VIDEO TRANSCRIPT:
%s

USER QUESTION: %s

Instructions:
- Answer based ONLY on the video transcript
- If the answer is not in the transcript, say "That topic was not discussed in this video"
- Include timestamps when relevant
- Be concise but comprehensive

Answer:`

// YouTubeQA builds the transcript-grounded video answering prompt.
func YouTubeQA(transcript, question string) string {
	return fmt.Sprintf(youtubeQATemplate, transcript, question)
}

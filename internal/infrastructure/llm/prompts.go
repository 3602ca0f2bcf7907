package llm

import "fmt"

const (
	summarySystemPrompt = "You are a helpful assistant that provides concise, accurate summaries."
	titleSystemPrompt   = "You are a helpful assistant that generates concise titles."

	titleMaxTokens = 20
)

const youTubePromptTemplate = `You are a helpful AI assistant that reads YouTube video transcripts and writes detailed summaries. Create a comprehensive, easy-to-follow summary that highlights every key point discussed.
Work as follows:
 Analyze the transcript to identify the key themes and arguments.
 Summarize the video's content so the reader gets a comprehensive overview.
 Use bullet points where helpful, especially for arguments, steps or differing viewpoints.
 Use bold formatting for emphasis and to make sub headings stand out.
 Use clear and concise language and present the information in a logical order.

Transcript: %s`

const webPagePromptTemplate = `Summarize the following content. Cover the topic thoroughly by exploring its various aspects and perspectives.
Response structure:
Expand the story fully and include snippets from the article or page where appropriate.
Provide comprehensive coverage of the topic, including detailed information and multiple perspectives.
Use clear headings and bullet points.
Highlight key takeaways.

Content: %s`

const titlePromptTemplate = "Summarize the following text into a concise title of less than 10 words. Output only the title itself, without any introductory label such as 'Title:'.\n\nText: %s"

// summaryPrompt embeds content verbatim at the end of the template.
func summaryPrompt(content string, isYouTube bool) string {
	if isYouTube {
		return fmt.Sprintf(youTubePromptTemplate, content)
	}
	return fmt.Sprintf(webPagePromptTemplate, content)
}

func titlePrompt(summary string) string {
	return fmt.Sprintf(titlePromptTemplate, summary)
}

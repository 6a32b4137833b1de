package pageconfig

// Default copy for the sentiment flow.
const (
	DefaultSentimentQuestion = "How was your experience?"
	DefaultFeedbackPrompt    = "We're sorry to hear that. Tell us what we could do better."
	DefaultThankYouText      = "Thank you for your feedback!"
	DefaultPopupHeader       = "How was your experience?"
	DefaultPageHeader        = "We value your feedback"

	DefaultFallingIcon  = "star"
	DefaultFallingColor = "#fbbf24"

	DefaultTargetWordCount = 200
)

// Defaults returns the built-in configuration of a new page.
func Defaults() Config {
	return Config{
		Sentiment: SentimentSettings{
			Question:       DefaultSentimentQuestion,
			FeedbackPrompt: DefaultFeedbackPrompt,
			ThankYouText:   DefaultThankYouText,
			PopupHeader:    DefaultPopupHeader,
			PageHeader:     DefaultPageHeader,
		},
		FallingAnimation: FallingSettings{
			IconKey:  DefaultFallingIcon,
			ColorHex: DefaultFallingColor,
		},
		AIAssist: AIAssistSettings{
			GenerationEnabled: true,
			GrammarFixEnabled: true,
		},
	}
}

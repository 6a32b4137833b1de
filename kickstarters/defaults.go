package kickstarters

// defaultItems are seeded into every catalog. The longest question defines
// DefaultMaxQuestionLength.
var defaultItems = []Item{
	{ID: "default-process-1", Category: CategoryProcess, Question: "How easy was it to book with [Business Name]?"},
	{ID: "default-process-2", Category: CategoryProcess, Question: "What stood out about the process of working with [Business Name]?"},
	{ID: "default-process-3", Category: CategoryProcess, Question: "How quickly did [Business Name] respond to your questions?"},
	{ID: "default-process-4", Category: CategoryProcess, Question: "Was anything about the process surprisingly simple?"},
	{ID: "default-process-5", Category: CategoryProcess, Question: "How clearly did [Business Name] explain every step of the process before getting started?"},

	{ID: "default-experience-1", Category: CategoryExperience, Question: "What was the highlight of your visit?"},
	{ID: "default-experience-2", Category: CategoryExperience, Question: "How did [Business Name] make you feel welcome?"},
	{ID: "default-experience-3", Category: CategoryExperience, Question: "What would you tell a friend about [Business Name]?"},
	{ID: "default-experience-4", Category: CategoryExperience, Question: "Describe your experience in three words."},
	{ID: "default-experience-5", Category: CategoryExperience, Question: "What made your experience with [Business Name] different from others you've tried?"},

	{ID: "default-outcomes-1", Category: CategoryOutcomes, Question: "What results did you get from working with [Business Name]?"},
	{ID: "default-outcomes-2", Category: CategoryOutcomes, Question: "What problem did [Business Name] help you solve?"},
	{ID: "default-outcomes-3", Category: CategoryOutcomes, Question: "How has your situation changed since working with us?"},
	{ID: "default-outcomes-4", Category: CategoryOutcomes, Question: "Would you recommend [Business Name]? Why?"},
	{ID: "default-outcomes-5", Category: CategoryOutcomes, Question: "Did the final result meet or exceed what you expected?"},

	{ID: "default-people-1", Category: CategoryPeople, Question: "Who on the team made a difference for you?"},
	{ID: "default-people-2", Category: CategoryPeople, Question: "How friendly and helpful was the staff?"},
	{ID: "default-people-3", Category: CategoryPeople, Question: "Is there someone at [Business Name] you'd like to thank by name?"},
	{ID: "default-people-4", Category: CategoryPeople, Question: "How knowledgeable was the team?"},
}

// previewPool is rotated through when nothing is selected.
var previewPool = []string{
	"default-experience-1",
	"default-process-1",
	"default-outcomes-4",
	"default-people-1",
	"default-experience-3",
}

// DefaultItems returns a copy of the seeded items.
func DefaultItems() []Item {
	out := make([]Item, len(defaultItems))
	for i, it := range defaultItems {
		it.IsDefault = true
		out[i] = it
	}
	return out
}

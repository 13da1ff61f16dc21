package memory

import "helpdesk-automation/internal/model"

// DefaultMinImportance is the lowest importance that is stored.
const DefaultMinImportance = 2

// ManualImportance is assigned to facts found by the keyword rules.
const ManualImportance = 3

// Extraction is the structured reply of the extraction prompt.
type Extraction struct {
	Category   model.MemoryCategory `json:"category"`
	Content    string               `json:"content"`
	Importance int                  `json:"importance"`
}

// Rule maps trigger phrases to a category. Stored text is Label + message.
type Rule struct {
	Phrases  []string
	Category model.MemoryCategory
	Label    string
}

// DefaultRules are checked in order; the first match wins.
var DefaultRules = []Rule{
	{
		Phrases:  []string{"my name is", "i am", "i'm", "me llamo", "mi nombre es", "soy"},
		Category: model.MemoryPersonal,
		Label:    "Personal info: ",
	},
	{
		Phrases:  []string{"i work at", "i work as", "my profession", "trabajo en", "trabajo como", "mi profesion"},
		Category: model.MemoryProfessional,
		Label:    "Professional info: ",
	},
	{
		Phrases:  []string{"i like", "i love", "i prefer", "i hate", "me gusta", "me encanta", "prefiero", "odio"},
		Category: model.MemoryPreference,
		Label:    "Preference: ",
	},
	{
		Phrases:  []string{"important", "remember that", "don't forget", "importante", "recuerda que", "no olvides"},
		Category: model.MemoryImportantFact,
		Label:    "Important fact: ",
	},
}

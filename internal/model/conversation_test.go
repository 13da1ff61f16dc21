package model

import "testing"

func TestCloneIsDeep(t *testing.T) {
	orig := ConversationState{
		ThreadID:         "t1",
		RetrievedContext: StringPtr("ctx"),
		Sources:          []string{"faq.md"},
		History:          []string{"one"},
	}

	c := orig.Clone()
	*c.RetrievedContext = "changed"
	c.Sources[0] = "other.md"
	c.History = append(c.History, "two")

	if *orig.RetrievedContext != "ctx" || orig.Sources[0] != "faq.md" || len(orig.History) != 1 {
		t.Errorf("clone shares memory with original: %+v", orig)
	}
}

func TestMemoryCategoryValid(t *testing.T) {
	for _, c := range []MemoryCategory{MemoryPersonal, MemoryProfessional, MemoryPreference, MemoryImportantFact} {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	if MemoryNone.Valid() || MemoryCategory("other").Valid() {
		t.Error("none/other must not be storable")
	}
}

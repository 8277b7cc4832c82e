package datamodel

import "testing"

func TestInferItemKind(t *testing.T) {
	tests := map[string]ItemKind{
		"cmi.comments_from_learner":             ItemLearnerComment,
		"cmi.comments_from_lms":                 ItemLMSComment,
		"cmi.objectives":                        ItemObjective,
		"cmi.interactions.3.correct_responses":  ItemCorrectResponse,
		"cmi.interactions.3.objectives":         ItemInteractionObjective,
		"cmi.interactions":                      ItemInteraction,
		"cmi.core":                              ItemUnknown,
		"cmi.interactions.10.correct_responses": ItemCorrectResponse,
	}
	for path, want := range tests {
		if got := InferItemKind(path); got != want {
			t.Fatalf("InferItemKind(%q) = %s, want %s", path, got, want)
		}
	}
}

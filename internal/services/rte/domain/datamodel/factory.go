package datamodel

import (
	"strings"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"
)

// ItemKind names the type of item a collection holds.
type ItemKind int

const (
	ItemUnknown ItemKind = iota
	ItemLearnerComment
	ItemLMSComment
	ItemObjective
	ItemCorrectResponse
	ItemInteractionObjective
	ItemInteraction
)

func (k ItemKind) String() string {
	switch k {
	case ItemLearnerComment:
		return "learner_comment"
	case ItemLMSComment:
		return "lms_comment"
	case ItemObjective:
		return "objective"
	case ItemCorrectResponse:
		return "correct_response"
	case ItemInteractionObjective:
		return "interaction_objective"
	case ItemInteraction:
		return "interaction"
	default:
		return "unknown"
	}
}

type itemRule struct {
	pattern string
	kind    ItemKind
}

// itemRules is checked in order and the first match wins. Interaction
// sub-collection paths contain the interaction pattern, so the deeper
// patterns come first.
var itemRules = []itemRule{
	{pattern: "cmi.comments_from_learner", kind: ItemLearnerComment},
	{pattern: "cmi.comments_from_lms", kind: ItemLMSComment},
	{pattern: "cmi.objectives", kind: ItemObjective},
	{pattern: ".correct_responses", kind: ItemCorrectResponse},
	{pattern: ".objectives", kind: ItemInteractionObjective},
	{pattern: "cmi.interactions", kind: ItemInteraction},
}

// InferItemKind returns the item kind for a collection at collectionPath.
func InferItemKind(collectionPath string) ItemKind {
	for _, rule := range itemRules {
		if strings.Contains(collectionPath, rule.pattern) {
			return rule.kind
		}
	}
	return ItemUnknown
}

// newItem builds a detached item for the collection at collectionPath. The
// inferred kind must agree with the kind the schema declares.
func (s *Schema) newItem(collectionPath string, coll *Collection) (*Container, error) {
	kind := InferItemKind(collectionPath)
	if kind == ItemUnknown || kind != coll.spec.Item {
		return nil, errcode.Newf(errcode.GeneralSetFailure, collectionPath, "cannot create sub-entity of %s", collectionPath)
	}
	spec, ok := s.items[kind]
	if !ok {
		return nil, errcode.Newf(errcode.GeneralSetFailure, collectionPath, "no %s items in scorm %s", kind, s.version)
	}
	return newContainer(spec), nil
}

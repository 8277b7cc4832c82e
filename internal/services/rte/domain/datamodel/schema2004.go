package datamodel

import (
	"math"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
)

var (
	completionStatus = Vocabulary("completed", "incomplete", "not attempted", "unknown")
	successStatus    = Vocabulary("passed", "failed", "unknown")
	interaction2004  = Vocabulary("true-false", "choice", "fill-in", "long-fill-in", "matching", "performance", "sequencing", "likert", "numeric", "other")
	result2004       = OneOf(Vocabulary("correct", "incorrect", "unanticipated", "neutral"), AnyReal)
	nonNegative      = Real(0, math.Inf(1))
	unitInterval     = Real(0, 1)
	scaledScore      = Real(-1, 1)
)

func unknownTarget(string) string { return "unknown" }

func score2004Spec() *ContainerSpec {
	return &ContainerSpec{
		Children: "scaled,raw,min,max",
		Members: []Member{
			rw("scaled", withFormat(scaledScore)),
			rw("raw", withFormat(AnyReal)),
			rw("min", withFormat(AnyReal)),
			rw("max", withFormat(AnyReal)),
		},
	}
}

var schema2004 = &Schema{
	version: scorm.Version2004,
	root: &ContainerSpec{
		Members: []Member{
			group("cmi", &ContainerSpec{
				Members: []Member{
					ro("_version", withDefault("1.0")),
					list("comments_from_learner", "comment,location,timestamp", ItemLearnerComment),
					list("comments_from_lms", "comment,location,timestamp", ItemLMSComment),
					rw("completion_status", withDefault("unknown"), withFormat(completionStatus), withDerive(deriveCompletion)),
					wbi("completion_threshold", withFormat(Blank(unitInterval))),
					wbi("credit", withDefault("credit"), withFormat(Vocabulary("credit", "no-credit"))),
					wbi("entry", withFormat(Vocabulary("ab-initio", "resume", ""))),
					wo("exit", withFormat(Vocabulary("time-out", "suspend", "logout", "normal", ""))),
					list("interactions", "id,type,objectives,timestamp,correct_responses,weighting,learner_response,result,latency,description", ItemInteraction),
					wbi("launch_data"),
					wbi("learner_id"),
					wbi("learner_name"),
					group("learner_preference", &ContainerSpec{
						Children: "audio_level,language,delivery_speed,audio_captioning",
						Members: []Member{
							rw("audio_level", withDefault("1"), withFormat(nonNegative)),
							rw("language", withFormat(LanguageCode)),
							rw("delivery_speed", withDefault("1"), withFormat(nonNegative)),
							rw("audio_captioning", withDefault("0"), withFormat(Vocabulary("-1", "0", "1"))),
						},
					}),
					rw("location"),
					wbi("max_time_allowed", withFormat(Blank(Duration))),
					wbi("mode", withDefault("normal"), withFormat(Vocabulary("browse", "normal", "review"))),
					list("objectives", "id,score,success_status,completion_status,progress_measure,description", ItemObjective),
					rw("progress_measure", withFormat(Blank(unitInterval))),
					wbi("scaled_passing_score", withFormat(Blank(scaledScore))),
					group("score", score2004Spec()),
					wo("session_time", withFormat(Duration)),
					rw("success_status", withDefault("unknown"), withFormat(successStatus), withDerive(deriveSuccess)),
					rw("suspend_data"),
					wbi("time_limit_action", withDefault("continue,no message"), withFormat(Vocabulary("exit,message", "exit,no message", "continue,message", "continue,no message"))),
					wbi("total_time", withDefault("0"), withFormat(OneOf(Duration, Vocabulary("0")))),
				},
			}),
			group("adl", &ContainerSpec{
				Members: []Member{
					group("nav", &ContainerSpec{
						Members: []Member{
							rw("request", withDefault("_none_"), withFormat(NavRequest)),
							group("request_valid", &ContainerSpec{
								Members: []Member{
									ro("continue", withDefault("unknown")),
									ro("previous", withDefault("unknown")),
									group("choice", &ContainerSpec{Target: unknownTarget}),
									group("jump", &ContainerSpec{Target: unknownTarget}),
								},
							}),
						},
					}),
				},
			}),
		},
	},
	items: map[ItemKind]*ContainerSpec{
		ItemLearnerComment: {
			Members: []Member{
				rw("comment"),
				rw("location"),
				rw("timestamp", withFormat(Timestamp)),
			},
		},
		ItemLMSComment: {
			Members: []Member{
				wbi("comment"),
				wbi("location"),
				wbi("timestamp", withFormat(Timestamp)),
			},
		},
		ItemObjective: {
			Members: []Member{
				rw("id", withFormat(Identifier)),
				group("score", score2004Spec()),
				rw("success_status", withDefault("unknown"), withFormat(successStatus)),
				rw("completion_status", withDefault("unknown"), withFormat(completionStatus)),
				rw("progress_measure", withFormat(unitInterval)),
				rw("description"),
			},
			Requires: []Dependency{{Member: "*", On: "id"}},
		},
		ItemInteraction: {
			Members: []Member{
				rw("id", withFormat(Identifier)),
				rw("type", withFormat(interaction2004)),
				list("objectives", "id", ItemInteractionObjective),
				rw("timestamp", withFormat(Timestamp)),
				list("correct_responses", "pattern", ItemCorrectResponse),
				rw("weighting", withFormat(AnyReal)),
				rw("learner_response"),
				rw("result", withFormat(result2004)),
				rw("latency", withFormat(Duration)),
				rw("description"),
			},
			Requires: []Dependency{
				{Member: "learner_response", On: "type"},
				{Member: "correct_responses", On: "type"},
				{Member: "*", On: "id"},
			},
		},
		ItemInteractionObjective: {
			Members: []Member{
				rw("id", withFormat(Identifier)),
			},
		},
		ItemCorrectResponse: {
			Members: []Member{
				rw("pattern"),
			},
		},
	},
}

package datamodel

import (
	"github.com/louisbranch/scormrte/internal/services/rte/domain/scorm"
)

var (
	lessonStatus12 = Vocabulary("passed", "completed", "failed", "incomplete", "browsed", "not attempted")
	exit12         = Vocabulary("time-out", "suspend", "logout", "")
	interaction12  = Vocabulary("true-false", "choice", "fill-in", "matching", "performance", "sequencing", "likert", "numeric")
	result12       = OneOf(Vocabulary("correct", "wrong", "unanticipated", "neutral"), AnyReal)
	score12        = Blank(Real(0, 100))
)

func score12Spec() *ContainerSpec {
	return &ContainerSpec{
		Children: "raw,min,max",
		Members: []Member{
			rw("raw", withFormat(score12)),
			rw("min", withFormat(score12)),
			rw("max", withFormat(score12)),
		},
	}
}

var schema12 = &Schema{
	version: scorm.Version12,
	root: &ContainerSpec{
		Members: []Member{
			group("cmi", &ContainerSpec{
				Members: []Member{
					rw("suspend_data"),
					wbi("launch_data"),
					rw("comments"),
					wbi("comments_from_lms"),
					group("core", &ContainerSpec{
						Children: "student_id,student_name,lesson_location,credit,lesson_status,entry,score,total_time,lesson_mode,exit,session_time",
						Members: []Member{
							wbi("student_id"),
							wbi("student_name"),
							rw("lesson_location"),
							wbi("credit", withFormat(Vocabulary("credit", "no-credit"))),
							rw("lesson_status", withFormat(lessonStatus12)),
							wbi("entry", withFormat(Vocabulary("ab-initio", "resume", ""))),
							group("score", &ContainerSpec{
								Children: "raw,min,max",
								Members: []Member{
									rw("raw", withFormat(score12)),
									rw("min", withFormat(score12)),
									rw("max", withDefault("100"), withFormat(score12)),
								},
							}),
							wbi("total_time", withFormat(Timespan12)),
							wbi("lesson_mode", withDefault("normal"), withFormat(Vocabulary("browse", "normal", "review"))),
							wo("exit", withFormat(exit12)),
							wo("session_time", withFormat(Timespan12)),
						},
					}),
					list("objectives", "id,score,status", ItemObjective),
					group("student_data", &ContainerSpec{
						Children: "mastery_score,max_time_allowed,time_limit_action",
						Members: []Member{
							wbi("mastery_score", withFormat(Blank(Real(0, 100)))),
							wbi("max_time_allowed", withFormat(Blank(Timespan12))),
							wbi("time_limit_action", withFormat(Blank(Vocabulary("exit,message", "exit,no message", "continue,message", "continue,no message")))),
						},
					}),
					group("student_preference", &ContainerSpec{
						Children: "audio,language,speed,text",
						Members: []Member{
							rw("audio", withFormat(Blank(Integer(-1, 100)))),
							rw("language"),
							rw("speed", withFormat(Blank(Integer(-100, 100)))),
							rw("text", withFormat(Blank(Integer(-1, 1)))),
						},
					}),
					list("interactions", "id,objectives,time,type,correct_responses,weighting,student_response,result,latency", ItemInteraction),
				},
			}),
		},
	},
	items: map[ItemKind]*ContainerSpec{
		ItemObjective: {
			Children: "id,score,status",
			Members: []Member{
				rw("id", withFormat(Identifier)),
				group("score", score12Spec()),
				rw("status", withFormat(lessonStatus12)),
			},
		},
		ItemInteraction: {
			Members: []Member{
				wo("id", withFormat(Identifier)),
				list("objectives", "", ItemInteractionObjective),
				wo("time", withFormat(Time12)),
				wo("type", withFormat(interaction12)),
				list("correct_responses", "", ItemCorrectResponse),
				wo("weighting", withFormat(AnyReal)),
				wo("student_response"),
				wo("result", withFormat(result12)),
				wo("latency", withFormat(Timespan12)),
			},
		},
		ItemInteractionObjective: {
			Members: []Member{
				wo("id", withFormat(Identifier)),
			},
		},
		ItemCorrectResponse: {
			Members: []Member{
				wo("pattern"),
			},
		},
	},
	optional: []string{
		"cmi.comments",
		"cmi.comments_from_lms",
		"cmi.objectives",
		"cmi.student_data",
		"cmi.student_preference",
		"cmi.interactions",
	},
}

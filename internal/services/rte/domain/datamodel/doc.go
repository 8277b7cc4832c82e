// Package datamodel holds the SCORM run-time data model: the versioned
// schema, the live node tree built from it, the dotted-path resolver that
// applies access control and creates collection items on demand, and the
// snapshot form used to persist and reload learner state.
//
// Nodes never reference the RTE that owns them. Every operation receives
// the lifecycle state it should evaluate access against.
package datamodel

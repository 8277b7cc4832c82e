// Package rte is the SCORM run-time API content talks to.
//
// An API owns one data model, lifecycle machine and listener bus. Content
// calls the eight verbs with string arguments and gets string results;
// failures are reported through the last-error register rather than Go
// errors. Hosts construct one API per content session and may swap the
// active instance through a Handle.
package rte

// Package printer renders normalized HTTP requests and responses into
// bounded, human-readable log lines.
//
// A Config built with NewConfig decides whether anything is printed (the
// debug flag and the Level), how long a line may be and where the work runs
// (an Executor) and ends up (a Sink). RenderRequest and RenderResponse are
// pure; PrintRequest and PrintResponse schedule rendering and hand the lines
// to the sink, swallowing any failure so that logging never affects the
// HTTP call being observed.
package printer

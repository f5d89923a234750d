// Package server serves charts and the gate style store over HTTP.
//
// Routes:
//
//	GET  /                          page with the violin and box plot charts
//	GET  /charts/{kind}.{format}    rendered chart (violins, boxplots, colorbar)
//	GET  /api/frequencies           box plot frequency report as JSON
//	GET  /api/gates                 stored gate styles
//	GET  /api/gates/hierarchy.svg   gate hierarchy diagram
//	GET  /api/gates/{id}            one gate style
//	POST /api/gates/{id}/color      recolour a gate: {"color": "#rrggbb"}
//	POST /api/boxplots/select       log a clicked box: {"population", "condition"}
//
// Chart routes take the dataset from ?input=, resolved inside the server's
// data directory, or fall back to the configured default for the kind.
// Every response carries an X-Request-Id header.
package server

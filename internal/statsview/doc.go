// Package statsview serves live runtime statistics over HTTP. It is only
// functional when built with the statsview tag:
//
//	go build -tags statsview ./cmd/pacemu
//
// Charts are then at <addr>/debug/statsview and pprof at <addr>/debug/pprof/.
package statsview

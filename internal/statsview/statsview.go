//go:build statsview

package statsview

import (
	"log"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// DefaultAddr is used when Launch is given an empty address.
const DefaultAddr = "localhost:12600"

// Launch starts the stats server in its own goroutine.
func Launch(addr string) {
	if addr == "" {
		addr = DefaultAddr
	}
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		statsview.New().Start()
	}()
	log.Printf("stats server available at http://%s/debug/statsview", addr)
}

// Available reports whether this build includes the stats server.
func Available() bool { return true }

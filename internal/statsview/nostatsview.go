//go:build !statsview

package statsview

import "log"

const DefaultAddr = "localhost:12600"

func Launch(addr string) {
	log.Printf("statsview: not built in; rebuild with -tags statsview")
}

func Available() bool { return false }

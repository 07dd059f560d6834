package pprof

import (
	"log"
	"net/http"
	_ "net/http/pprof"
	"runtime"
)

// Load starts the pprof endpoint on :6060. Enabled through
// server.enable_pprof in the config file.
func Load() {
	runtime.SetMutexProfileFraction(1)
	runtime.SetBlockProfileRate(1)

	go func() {
		if err := http.ListenAndServe(`:6060`, nil); err != nil {
			log.Fatal(err)
		}
	}()
}

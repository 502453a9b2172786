// Command schedlaunch starts a fixed set of worker threads pinned to CPU 0,
// each with its own scheduling policy and priority, releases them together
// and lets every worker busy-wait three times while reporting progress.
//
//	schedlaunch -n 2 -t 0.5 -s N,F -p -1,10
//
// Real-time policies need CAP_SYS_NICE (or root).
package main

import (
	"os"

	"github.com/Swind/go-sched-launcher/platform"
)

func main() {
	os.Exit(run(os.Args, platform.New(), os.Stdout, os.Stderr))
}

// Package schedlauncher starts a fixed set of worker threads with explicit,
// per-thread CPU scheduling and releases them at the same instant.
//
// Every worker is a goroutine locked to its own OS thread. The launcher gives
// each thread a scheduling policy (time-shared or real-time FIFO) and an
// optional priority, the worker pins itself to CPU 0, and all workers wait at
// a barrier until the last one is ready. Because they then compete for a
// single core while busy-waiting, the kernel's arbitration between policies
// becomes visible in the order of their progress lines.
//
// # Quick Start
//
//	cfg, err := schedlauncher.ParseLaunchConfig(2, 0.5, "N,F", "-1,10")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := schedlauncher.Launch(cfg); err != nil {
//		log.Fatal(err)
//	}
//
// # Key Concepts
//
// LaunchConfig: thread count, busy-wait duration and one policy and priority
// per thread. A priority of -1 leaves the platform default in place.
//
// Launcher: builds one ThreadAttr per worker, always requesting explicit
// scheduling so the launcher's own class is never inherited, creates the
// threads one after another, waits at the start barrier as the last party,
// then joins the workers in creation order.
//
// Platform: the thread capability behind the launcher. package platform talks
// to the Linux kernel; package platform/fake runs everything in memory.
//
// # Failures
//
// Any setup failure is fatal. Run returns a *core.OpError naming the failing
// operation and no worker runs its workload.
//
// Real-time FIFO needs CAP_SYS_NICE (or root).
package schedlauncher

package schedlauncher_test

import (
	"fmt"

	schedlauncher "github.com/Swind/go-sched-launcher"
	"github.com/Swind/go-sched-launcher/platform/fake"
)

// ExampleLaunch demonstrates a single time-shared worker on the in-memory platform.
func ExampleLaunch() {
	cfg, err := schedlauncher.ParseLaunchConfig(1, 0, "N", "-1")
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := schedlauncher.Launch(cfg, schedlauncher.WithPlatform(fake.New())); err != nil {
		fmt.Println(err)
		return
	}

	// Output:
	// Thread 0 is running
	// Thread 0 is running
	// Thread 0 is running
}

// ExampleParseLaunchConfig shows how a launch line maps to per-thread specs.
func ExampleParseLaunchConfig() {
	cfg, err := schedlauncher.ParseLaunchConfig(2, 0.25, "N,F", "-1,10")
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, spec := range cfg.ThreadSpecs() {
		fmt.Printf("thread %d: %s priority=%d cpu=%d\n", spec.Index, spec.Policy.Name(), spec.Priority, spec.CPU)
	}
	fmt.Println("workload:", cfg.Workload())

	// Output:
	// thread 0: time-shared priority=-1 cpu=0
	// thread 1: fifo priority=10 cpu=0
	// workload: 250ms
}

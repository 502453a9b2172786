package schedlauncher

import "github.com/Swind/go-sched-launcher/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the schedlauncher package for most use cases.

// SchedPolicy is the scheduling class of a worker thread
type SchedPolicy = core.SchedPolicy

// ThreadSpec describes one worker
type ThreadSpec = core.ThreadSpec

// LaunchConfig is the parsed launch configuration
type LaunchConfig = core.LaunchConfig

// Launcher runs one launch
type Launcher = core.Launcher

// LauncherOptions holds the launcher's collaborators
type LauncherOptions = core.LauncherOptions

// Platform creates scheduling-controlled threads
type Platform = core.Platform

// OpError names the operation that aborted a launch
type OpError = core.OpError

// Policy and sentinel constants
const (
	PolicyTimeShared   SchedPolicy = core.PolicyTimeShared
	PolicyRealtimeFIFO SchedPolicy = core.PolicyRealtimeFIFO

	PriorityUnset    = core.PriorityUnset
	DesignatedCPU    = core.DesignatedCPU
	WorkerIterations = core.WorkerIterations
)

// Convenience functions
var (
	ParseLaunchConfig      = core.ParseLaunchConfig
	ParsePolicyList        = core.ParsePolicyList
	ParsePriorityList      = core.ParsePriorityList
	DefaultLauncherOptions = core.DefaultLauncherOptions
)

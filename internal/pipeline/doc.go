// Package pipeline implements the orchestration core for streaming-media
// processing graphs. It assembles independently running stages (sources,
// transforms, sinks), launches each on its own goroutine, synchronizes their
// startup, and supervises their termination so that the first stage to
// finish anywhere in the graph decides the pipeline-level outcome.
//
// # Architecture Overview
//
//   - Builder: accumulates named stage registrations, spawns a runner
//     goroutine per stage immediately, and drives the two-phase launch
//     protocol in Build
//   - Stage runner: executes one stage's run logic under panic containment
//     with captured logging context, then reports exactly one terminal
//     outcome on the stage's completion signal
//   - Completion race: a supervisor converts the per-stage completion
//     signals into one pipeline outcome, decided by whichever stage
//     terminates first, for any reason
//   - ControlBroadcast: registry of per-stage listeners for out-of-band
//     control commands, append-only during registration and effectively
//     read-only after Build
//   - Path: compile-time-typed fluent chaining that threads the bounded
//     output queue of one stage into the input of the next
//
// # Concurrency and Thread Safety
//
// Each stage runs on a dedicated goroutine so it may block on I/O or run
// CPU-heavy work without starving its siblings. Bounded channels between
// adjacent stages are the sole backpressure mechanism; their capacity is
// declared by the producing stage. The shared Clock is the only other
// cross-stage resource and must be safe for concurrent reads.
//
// A panic inside a stage's run logic never propagates: the runner recovers
// it and converts it into a failure value reported through the completion
// signal.
//
// # Launch protocol
//
// Registration spawns the stage immediately; the stage must write exactly
// one readiness outcome to its ReadySignal before doing substantial work.
// Build waits for every stage's readiness in registration order, bounded by
// a per-stage timeout, then sleeps a short grace delay before declaring the
// pipeline live. Build does not tear down already-launched stages when a
// sibling fails its handshake; those goroutines keep running and the caller
// decides what to do with them.
package pipeline

// Package stages provides concrete media stages for mediaflow pipelines:
// a clock-paced frame generator, a gain transform, and a counting sink.
// They are the building blocks the run command wires together and double
// as reference implementations of the pipeline task contracts.
package stages

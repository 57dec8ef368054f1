/*
Package observability provides tools for monitoring trmc runs.

Metrics exposes Prometheus collectors fed by the engine's lifecycle hooks, and
ChainHooks lets several hook sets (metrics, debug tracing, logging) observe the same run.
*/
package observability

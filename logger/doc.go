/*
Package logger provides a caller-aware logging facade fanning enriched
records out to pluggable sinks.

# Overview

A [Logger] exposes one method per [Level] - Debug, Info, Warning,
Error, Critical - and only sinks whose minimum level is at or below a
record's level receive it. At every call the facade walks the active
stack to recover the call site (package, function, line and, for
methods, the receiver type) and merges it into the [Record] before
dispatch. Error and Critical additionally accept an error whose kind,
message, causes and origin stack are captured by [Describe].

Log lines emitted to the console and file sinks are composed of a few
parts:
  - timestamp (local style only)
  - logger name
  - level
  - message
  - call site

Here's an example:

	2026-08-23 15:55:21 - worker - ERROR - sync failed -> github.com/acme/app/sync - Run - 87

# Sinks

A facade owns an ordered set of [Sink] implementations, provisioned
eagerly from the [SinkConfig] variants: [ConsoleConfig], [FileConfig]
(size-rotated), [DatabaseConfig] (one row and one transaction per
record), [LokiConfig] (push API of a remote aggregator) and
[SentryConfig]. A sink failure is contained at the dispatch boundary
and reported to a rate-limited stderr channel; application code never
observes it.

# Registry

A [Registry] caches facades by logical key so repeated lookups reuse
provisioned sinks; the package-level [GetOrCreate], [Close] and
[CloseAll] address a process-wide default registry.

# Skip frames

Sometimes, especially with internal packages, the resolved call site
needs to be configurable. [Logger.AddSkip] and [WithSkip] set the
number of frames to scroll further back in order to reach the desired
caller.
*/
package logger

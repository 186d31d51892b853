// Package tasks runs batch operations over the favorites list with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines two operations:
//
//  1. [Engine.Refresh] : Fetch the detail record of every favorite
//     - Bounded worker pool (default 4, max 10 workers)
//     - Requests paced by a token bucket limiter
//     - Failed lookups are collected in [RefreshResult.Failures]
//
//  2. [Engine.ExportFavorites] : Write favorites to disk
//     - Formats: json, csv, markdown, txt
//     - Optionally joined with detail records (via Refresh)
//     - Markdown exports can download posters next to the document
//     - Every run writes an export_manifest.json summary
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking, so a slow or absent reader never stalls a run.
package tasks

// Package session runs one simulated crowd analysis.
//
// A Session owns the registered video, the frame counter, the current
// detections, the rolling heatmap history and the running statistics. While
// analyzing, a background loop advances one frame per tick at the configured
// frame rate; Step advances frames synchronously for callers that drive the
// clock themselves.
//
// # States
//
//	idle ──LoadVideo──▶ ready ──Start──▶ analyzing ──(last frame)──▶ complete
//	                      ▲                 │  ▲
//	                      │               Pause Start
//	                      │                 ▼  │
//	                      └──────Stop────── paused
//
// Stop returns to ready with the frame counter rewound while keeping the
// heatmap history and counts. Reset returns to idle and clears everything.
// LoadVideo from any state starts over with the new video.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Snapshot returns copies, so a
// render never observes frames appended after the snapshot was taken.
package session

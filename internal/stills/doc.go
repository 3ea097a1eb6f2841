// Package stills loads still frames used as backdrops for heatmap and
// detection renders.
//
// A still is a PNG, JPEG, GIF, TIFF or BMP image the client exported from
// its video. Videos themselves are never decoded. Cache is safe for
// concurrent use.
package stills

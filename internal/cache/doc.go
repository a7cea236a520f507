// Package cache provides a small generic LRU cache.
//
// The filter keeps its per-frame-size pass buffers in a Cache so that
// streams alternating between a few resolutions do not reallocate the edge
// mask and weight buffers on every frame.
//
//	c := cache.New[image.Point, *buffers](4)
//	b := c.GetOrCreate(image.Pt(w, h), func() *buffers { return newBuffers(w, h) })
//
// Cache is safe for concurrent use and must not be copied after creation.
package cache

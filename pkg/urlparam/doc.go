// Package urlparam connects registries to the browser location.
//
// The registries depend only on the Navigator interface: read the current
// query parameters, read the current path, and request navigation to a new
// "path?query" target. Two implementations ship with the package:
//
//   - Memory keeps the location in process. Tests and the CLI demo use it.
//   - PatchNavigator also tracks the location, and additionally hands every
//     navigation to a queue function as a protocol.URLPatch. Sessions use it
//     to push URL frames over their WebSocket.
//
// Values is an ordered, single-valued parameter set. Unlike url.Values it
// preserves the order in which parameters first appeared, so a sync that
// rewrites one parameter leaves the rest of the query string untouched.
package urlparam

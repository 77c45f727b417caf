// Package server serves search and filter registries to remote clients.
//
// Each WebSocket connection to /ws is a session with its own scope, search
// registry and filter registry. The connection URL carries the page
// location (/ws?path=/items&q=potions); URL syncs performed by the search
// registry are sent back to the client as url frames:
//
//	-> {"op":"search.add","id":"q","value":"potions","sync":true}
//	<- {"type":"result","seq":2,"data":{"q":{"query":"potions","hasUrlSync":true}}}
//	-> {"op":"search.commit","id":"q","value":"elixir"}
//	<- {"type":"result","seq":3,"data":{...}}
//	<- {"type":"url","seq":4,"mode":"replace","url":"/items?q=elixir"}
//
// The server also exposes /healthz, Prometheus metrics on /metrics and
// read-only debug snapshots under /sessions.
package server

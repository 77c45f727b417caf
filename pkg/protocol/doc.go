// Package protocol defines the JSON messages exchanged over a registry
// session WebSocket.
//
// Clients send Commands, one per text message:
//
//	{"ref":"1","op":"search.add","id":"q","value":"potions","sync":true}
//	{"ref":"2","op":"filter.reset","ids":["status","tag"]}
//
// The server answers every command with a result or error Frame carrying the
// same ref, and pushes url Frames whenever a URL sync navigates:
//
//	{"type":"result","seq":3,"ref":"1","data":{...}}
//	{"type":"url","seq":4,"mode":"replace","url":"/items?q=potions"}
//	{"type":"error","seq":5,"ref":"2","code":"E301","error":"Unknown command"}
//
// Sequence numbers increase monotonically per session.
package protocol

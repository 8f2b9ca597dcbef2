// Package websockets describes the JSON messages exchanged with the GPMDP
// remote control websocket.
//
// Clients send namespaced method calls; the server answers calls that carry a
// request identifier and independently pushes channel broadcasts to every
// connected client.
package websockets

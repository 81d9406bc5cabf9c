// Package examplev1 declares the example.ros2.v1.ExampleRos2Service RPC
// surface: its request and response messages, the server interface handlers
// implement, the gRPC service descriptor the runtime registers, and a typed
// client. Messages travel with the runtime's JSON codec.
package examplev1

// Package example contains the example RPC service hosted by the rpcserver
// command.
//
// The service answers ExampleRos2Service.RosTestRpc with a fixed response that
// sets every primitive field type, which makes it a smoke test for the wire
// codec and the runtime dispatch path.
package example

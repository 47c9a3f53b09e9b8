// Package ecs provides ECS adapters for sapling's scene-graph events.
//
// The primary adapter is [NewDonburiSink], which bridges sapling graph
// events (children added or removed, controllers attached, detached, or
// expired) into a [Donburi] world as typed events. Subscribe to
// [GraphEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

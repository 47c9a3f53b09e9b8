// Package ecs provides ECS adapters for sapling.
package ecs

import (
	"github.com/phanxgames/sapling"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GraphEventType is the Donburi event type for sapling graph events.
// Subscribe to this in your ECS systems to receive hierarchy and
// controller lifecycle changes.
var GraphEventType = events.NewEventType[sapling.GraphEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world.
// Graph events are published to GraphEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) sapling.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) Emit(event sapling.GraphEvent) {
	GraphEventType.Publish(s.world, event)
}

package sapling

import (
	"fmt"
	"sort"

	"github.com/phanxgames/sapling/rtti"
)

// Type records for the engine's built-in kinds. Sub-packages derive their
// own records from these.
var (
	ObjectType     = rtti.Register("sapling.Object", nil)
	ControlledType = rtti.Register("sapling.ControlledObject", ObjectType)
	NodeType       = rtti.Register("sapling.Node", ControlledType)
	ControllerType = rtti.Register("sapling.Controller", ObjectType)
	AnimationType  = rtti.Register("sapling.AnimationController", ControllerType)
	KeyframeType   = rtti.Register("sapling.KeyframeController", AnimationType)
	TweenType      = rtti.Register("sapling.TweenController", ControllerType)
	CameraNodeType = rtti.Register("sapling.CameraNode", NodeType)
	AxesNodeType   = rtti.Register("sapling.AxesNode", NodeType)
	BoneNodeType   = rtti.Register("sapling.BoneNode", NodeType)
	SpriteNodeType = rtti.Register("sapling.SpriteNode", NodeType)
	DefinitionType = rtti.Register("sapling.Definition", ControlledType)
)

// Object is the root of the engine's type hierarchy: anything with a type
// record and a name.
type Object interface {
	rtti.Typed
	Name() string
}

// ControlledObject is an Object that owns a set of controllers.
type ControlledObject interface {
	Object
	Controllers() *ControllerSet
}

// Definition is a standalone controlled object that is not part of any
// scene graph. It is useful for driving shared state, such as an animation
// clock, from controllers.
type Definition struct {
	name        string
	controllers ControllerSet
}

// NewDefinition creates a named Definition with an empty controller set.
func NewDefinition(name string) *Definition {
	d := &Definition{name: name}
	d.controllers.Init(d)
	return d
}

func (d *Definition) Type() *rtti.Type { return DefinitionType }
func (d *Definition) Name() string     { return d.name }

func (d *Definition) setName(name string) { d.name = name }

// Controllers returns the definition's controller set.
func (d *Definition) Controllers() *ControllerSet { return &d.controllers }

// renameable objects can be given a unique name by an ObjectRegistry.
type renameable interface {
	Object
	setName(name string)
}

// ObjectRegistry indexes live objects by name. Names are unique within a
// registry: registering a second object under a taken name renames it with
// a numeric suffix ("arm" becomes "arm_002") and logs a debug warning.
//
// A Scene keeps one registry. Nodes join it when they are added under the
// scene root and leave it when they are removed or disposed.
type ObjectRegistry struct {
	objects map[string]Object
}

// NewObjectRegistry creates an empty registry.
func NewObjectRegistry() *ObjectRegistry {
	return &ObjectRegistry{objects: make(map[string]Object)}
}

// Register adds obj and returns the name it is registered under.
// Registering an object that is already present is a no-op.
func (r *ObjectRegistry) Register(obj Object) string {
	name := obj.Name()
	cur, taken := r.objects[name]
	if !taken {
		r.objects[name] = obj
		return name
	}
	if cur == obj {
		return name
	}
	ro, ok := obj.(renameable)
	if !ok {
		Debugf("warning: object name %q already exists, %s not registered", name, obj.Type())
		return ""
	}
	unique := name
	for i := 2; ; i++ {
		unique = fmt.Sprintf("%s_%03d", name, i)
		if _, taken := r.objects[unique]; !taken {
			break
		}
	}
	Debugf("warning: object name %q already exists, using %q instead", name, unique)
	ro.setName(unique)
	r.objects[unique] = obj
	return unique
}

// Unregister removes obj. It is a no-op if obj is not registered under
// its current name.
func (r *ObjectRegistry) Unregister(obj Object) {
	if cur, ok := r.objects[obj.Name()]; ok && cur == obj {
		delete(r.objects, obj.Name())
	}
}

// Lookup returns the object registered under name, or nil.
func (r *ObjectRegistry) Lookup(name string) Object {
	return r.objects[name]
}

// Len returns the number of registered objects.
func (r *ObjectRegistry) Len() int {
	return len(r.objects)
}

// Names returns the registered names, sorted.
func (r *ObjectRegistry) Names() []string {
	names := make([]string, 0, len(r.objects))
	for name := range r.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *ObjectRegistry) registerTree(n *NodeBase) {
	n.Walk(func(node Node) bool {
		r.Register(node)
		return true
	})
}

func (r *ObjectRegistry) unregisterTree(n *NodeBase) {
	n.Walk(func(node Node) bool {
		r.Unregister(node)
		return true
	})
}

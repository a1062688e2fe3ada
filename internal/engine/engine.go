package engine

// The simulation core consumes the rendering/physics/audio engine as opaque
// services behind these interfaces. Internals (scene graphs, rigid bodies,
// collision shapes, mixing) are out of scope; only the query/mutate surface
// the gameplay code needs is specified here.

// Scene is the visual-hierarchy service.
type Scene interface {
	CreateNode(name string) NodeID
	RemoveNode(id NodeID)
	Reparent(child, parent NodeID)
	SetLocalPosition(id NodeID, pos Vec3)
	SetLocalRotation(id NodeID, yaw, pitch float32)
	SetVisible(id NodeID, visible bool)
	// GlobalPosition resolves a node's world-space position.
	GlobalPosition(id NodeID) Vec3
	// LookVector is the node's forward direction in world space.
	LookVector(id NodeID) Vec3
}

// Physics is the collision/kinematics service.
type Physics interface {
	CreateBody(pos Vec3, radius float32) BodyID
	// CreateTrigger registers a non-solid sensor volume.
	CreateTrigger(pos Vec3, radius float32) BodyID
	RemoveBody(id BodyID)
	Position(id BodyID) Vec3
	SetPosition(id BodyID, pos Vec3)
	Velocity(id BodyID) Vec3
	SetVelocity(id BodyID, vel Vec3)
	// RayCast returns hits ordered near-to-far, at most maxDist away.
	RayCast(origin, dir Vec3, maxDist float32) []RayHit
	// Contacts lists the body's active contacts this step, triggers included.
	Contacts(id BodyID) []Contact
	HasGroundContact(id BodyID) bool
	Step(dt float32)
}

// Audio is the sound-playback service.
type Audio interface {
	Play(name string, at Vec3)
	SetMusicVolume(v float32)
}

// Services bundles the collaborator handles injected into every system.
type Services struct {
	Scene   Scene
	Physics Physics
	Audio   Audio
}

package status

// EntityID is the stable integer identity of a live entity.
type EntityID = uint32

// Channel names one modifier kind. Each channel owns one partition per entity.
type Channel string

const (
	ChannelSpeed      Channel = "speed"
	ChannelJump       Channel = "jump"
	ChannelStun       Channel = "stun"
	ChannelUsingMove  Channel = "using_move"
	ChannelRagdoll    Channel = "ragdoll"
	ChannelAutoRotate Channel = "auto_rotate"
	ChannelAttack     Channel = "attack"
	ChannelDamage     Channel = "damage"
)

// Channels lists every partition an entity owns.
var Channels = []Channel{
	ChannelSpeed,
	ChannelJump,
	ChannelStun,
	ChannelUsingMove,
	ChannelRagdoll,
	ChannelAutoRotate,
	ChannelAttack,
	ChannelDamage,
}

// Actor is anything damage can be attributed to.
// Returns false when the actor cannot be resolved to a live entity
// (environment, despawned projectile owner, etc.).
type Actor interface {
	EntityID() (EntityID, bool)
}

// ActorID is an Actor that is already a known entity id.
type ActorID EntityID

// EntityID implements Actor.
func (a ActorID) EntityID() (EntityID, bool) {
	return EntityID(a), true
}

// Ptr returns a pointer to v. Used to fill sparse StunEffects.
func Ptr[T any](v T) *T {
	return &v
}

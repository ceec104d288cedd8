package permission

// Effect is the outcome an override forces for one permission.
// The zero value is not a valid effect: a missing override is expressed by the
// absence of an Override value, never by an Effect.
type Effect uint8

const (
	// Grant adds the permission regardless of the user's roles.
	Grant Effect = iota + 1
	// Revoke removes the permission regardless of the user's roles.
	Revoke
)

func (e Effect) String() string {
	switch e {
	case Grant:
		return "grant"
	case Revoke:
		return "revoke"
	default:
		return "invalid"
	}
}

// EffectOf maps a stored grant flag to an Effect.
func EffectOf(grant bool) Effect {
	if grant {
		return Grant
	}

	return Revoke
}

// Override is a per-user exception for one permission key.
type Override struct {
	Key    Key
	Effect Effect
}

// NewOverride builds an override for resource/action from a stored grant flag.
func NewOverride(resource, action string, grant bool) Override {
	return Override{Key: NewKey(resource, action), Effect: EffectOf(grant)}
}

// apply merges the override into s.
func (o Override) apply(s Set) {
	if !o.Key.KnownAction() {
		return
	}

	switch o.Effect {
	case Grant:
		s.Add(o.Key)
	case Revoke:
		s.Remove(o.Key)
	}
}

package world

// ActorKind discriminates the Actor sum type.
type ActorKind uint8

const (
	ActorBot ActorKind = iota
	ActorPlayer
)

// BotKind selects a bot definition (walk speed, health, visuals).
type BotKind uint8

const (
	BotMutant BotKind = iota
	BotParasite
	BotMaw
)

func (k BotKind) String() string {
	switch k {
	case BotMutant:
		return "mutant"
	case BotParasite:
		return "parasite"
	case BotMaw:
		return "maw"
	}
	return "unknown"
}

// ParseBotKind maps a marker-file name to a BotKind.
func ParseBotKind(s string) (BotKind, bool) {
	switch s {
	case "mutant":
		return BotMutant, true
	case "parasite":
		return BotParasite, true
	case "maw":
		return BotMaw, true
	}
	return 0, false
}

// WeaponKind is the closed set of weapon types.
type WeaponKind uint8

const (
	WeaponAK47 WeaponKind = iota
	WeaponM4
	WeaponPlasmaGun
	WeaponRocketLauncher
)

func (k WeaponKind) String() string {
	switch k {
	case WeaponAK47:
		return "ak47"
	case WeaponM4:
		return "m4"
	case WeaponPlasmaGun:
		return "plasma_gun"
	case WeaponRocketLauncher:
		return "rocket_launcher"
	}
	return "unknown"
}

// ProjectileKind is the closed set of projectile types.
type ProjectileKind uint8

const (
	ProjectileBullet ProjectileKind = iota
	ProjectilePlasma
	ProjectileRocket
)

// ItemKind is the closed set of pickup types.
type ItemKind uint8

const (
	ItemMedkit ItemKind = iota
	ItemAmmoAK47
	ItemAmmoM4
	ItemAmmoPlasma
	ItemAmmoRockets
)

func (k ItemKind) String() string {
	switch k {
	case ItemMedkit:
		return "medkit"
	case ItemAmmoAK47:
		return "ammo_ak47"
	case ItemAmmoM4:
		return "ammo_m4"
	case ItemAmmoPlasma:
		return "ammo_plasma"
	case ItemAmmoRockets:
		return "ammo_rockets"
	}
	return "unknown"
}

// ParseItemKind maps a marker-file name to an ItemKind.
func ParseItemKind(s string) (ItemKind, bool) {
	switch s {
	case "medkit":
		return ItemMedkit, true
	case "ammo_ak47":
		return ItemAmmoAK47, true
	case "ammo_m4":
		return ItemAmmoM4, true
	case "ammo_plasma":
		return ItemAmmoPlasma, true
	case "ammo_rockets":
		return ItemAmmoRockets, true
	}
	return 0, false
}

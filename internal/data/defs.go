package data

import "github.com/gritfps/sim/internal/world"

// Definition tables for every entity kind. Defaults() is the authoritative
// base table; a tuning script may override individual fields (see the
// scripting package).

type WeaponDef struct {
	Kind        world.WeaponKind
	Cooldown    float64 // seconds between successful shots
	Projectile  world.ProjectileKind
	InitialAmmo int
	Recoil      float32 // backward visual offset applied per shot
	LaserRange  float32 // laser-sight ray length
	ShotSound   string
}

type ProjectileDef struct {
	Kind     world.ProjectileKind
	Speed    float32
	Lifetime float32 // seconds
	Damage   float32
	Radius   float32 // hit-test radius along the flight path
}

type ItemDef struct {
	Kind         world.ItemKind
	Heal         float32
	AmmoKind     world.WeaponKind // meaningful only when Ammo > 0
	Ammo         int
	RespawnDelay float32 // seconds until a picked-up item returns
	PickupSound  string
}

type BotDef struct {
	Kind         world.BotKind
	Health       float32
	WalkSpeed    float32 // units per second
	JumpVelocity float32
	BodyRadius   float32
}

// Tables bundles every definition table, keyed by kind.
type Tables struct {
	Weapons     map[world.WeaponKind]WeaponDef
	Projectiles map[world.ProjectileKind]ProjectileDef
	Items       map[world.ItemKind]ItemDef
	Bots        map[world.BotKind]BotDef
}

func Defaults() *Tables {
	return &Tables{
		Weapons: map[world.WeaponKind]WeaponDef{
			world.WeaponAK47: {
				Kind: world.WeaponAK47, Cooldown: 0.1,
				Projectile: world.ProjectileBullet, InitialAmmo: 120,
				Recoil: 0.025, LaserRange: 100, ShotSound: "shot_ak47",
			},
			world.WeaponM4: {
				Kind: world.WeaponM4, Cooldown: 0.1,
				Projectile: world.ProjectileBullet, InitialAmmo: 90,
				Recoil: 0.02, LaserRange: 100, ShotSound: "shot_m4",
			},
			world.WeaponPlasmaGun: {
				Kind: world.WeaponPlasmaGun, Cooldown: 0.1,
				Projectile: world.ProjectilePlasma, InitialAmmo: 60,
				Recoil: 0.015, LaserRange: 100, ShotSound: "shot_plasma",
			},
			world.WeaponRocketLauncher: {
				Kind: world.WeaponRocketLauncher, Cooldown: 0.1,
				Projectile: world.ProjectileRocket, InitialAmmo: 12,
				Recoil: 0.05, LaserRange: 100, ShotSound: "shot_rocket",
			},
		},
		Projectiles: map[world.ProjectileKind]ProjectileDef{
			world.ProjectileBullet: {
				Kind: world.ProjectileBullet, Speed: 40, Lifetime: 3,
				Damage: 7, Radius: 0.05,
			},
			world.ProjectilePlasma: {
				Kind: world.ProjectilePlasma, Speed: 20, Lifetime: 4,
				Damage: 14, Radius: 0.12,
			},
			world.ProjectileRocket: {
				Kind: world.ProjectileRocket, Speed: 12, Lifetime: 6,
				Damage: 45, Radius: 0.2,
			},
		},
		Items: map[world.ItemKind]ItemDef{
			world.ItemMedkit: {
				Kind: world.ItemMedkit, Heal: 20,
				RespawnDelay: 20, PickupSound: "pickup_medkit",
			},
			world.ItemAmmoAK47: {
				Kind: world.ItemAmmoAK47, AmmoKind: world.WeaponAK47, Ammo: 30,
				RespawnDelay: 15, PickupSound: "pickup_ammo",
			},
			world.ItemAmmoM4: {
				Kind: world.ItemAmmoM4, AmmoKind: world.WeaponM4, Ammo: 30,
				RespawnDelay: 15, PickupSound: "pickup_ammo",
			},
			world.ItemAmmoPlasma: {
				Kind: world.ItemAmmoPlasma, AmmoKind: world.WeaponPlasmaGun, Ammo: 20,
				RespawnDelay: 15, PickupSound: "pickup_ammo",
			},
			world.ItemAmmoRockets: {
				Kind: world.ItemAmmoRockets, AmmoKind: world.WeaponRocketLauncher, Ammo: 4,
				RespawnDelay: 25, PickupSound: "pickup_ammo",
			},
		},
		Bots: map[world.BotKind]BotDef{
			world.BotMutant: {
				Kind: world.BotMutant, Health: 100, WalkSpeed: 4,
				JumpVelocity: 6, BodyRadius: 0.5,
			},
			world.BotParasite: {
				Kind: world.BotParasite, Health: 80, WalkSpeed: 5.5,
				JumpVelocity: 6, BodyRadius: 0.4,
			},
			world.BotMaw: {
				Kind: world.BotMaw, Health: 140, WalkSpeed: 3,
				JumpVelocity: 5, BodyRadius: 0.6,
			},
		},
	}
}

// Gameplay constants shared by the systems.
const (
	// TargetThreshold separates melee/idle range from "close the distance".
	TargetThreshold = 2.0
	// JumpDirY is the minimum vertical component of the normalized
	// direction-to-target that makes a grounded bot jump.
	JumpDirY = 0.3
	// PickupRadius is the item proximity distance.
	PickupRadius = 1.25
	// PlayerHealth / PlayerBodyRadius parameterize the player actor.
	PlayerHealth     = 100
	PlayerBodyRadius = 0.5
	PlayerWalkSpeed  = 5.0
	PlayerJumpSpeed  = 6.0
	// ArmorAbsorb is the damage share soaked by armor while any remains.
	ArmorAbsorb = 0.6
)

package script

import (
	"github.com/dop251/goja"

	"github.com/Garsondee/Algo-Arena/internal/arena"
)

// set assigns properties in order. Errors only occur for frozen objects,
// which these never are.
func set(obj *goja.Object, kv ...any) *goja.Object {
	for i := 0; i+1 < len(kv); i += 2 {
		_ = obj.Set(kv[i].(string), kv[i+1])
	}
	return obj
}

// botInfo exposes the snapshot under the field names bot scripts use.
func (c *Controller) botInfo(in arena.Info) *goja.Object {
	return set(c.vm.NewObject(),
		"id", in.ID,
		"name", in.Name,
		"x", in.X,
		"y", in.Y,
		"angle", in.Heading,
		"turret_angle", in.TurretHeading,
		"relativeTurretAngle", in.TurretOffset,
		"scan_angle", in.SensorHeading,
		"current_speed", in.Speed,
		"target_speed", in.TargetSpeed,
		"max_speed", in.MaxSpeed,
		"armor", in.Armor,
		"max_armor", in.MaxArmor,
		"heat", in.Heat,
		"max_heat", in.MaxHeat,
		"isShutdown", in.Shutdown,
		"isOverburn", in.Overburn,
		"fire_cooldown_remaining", in.FireCooldown,
		"scan_cooldown_remaining", in.ScanCooldown,
		"scan_range", in.ScanRange,
		"scan_arc", in.ScanArc,
		"tick", in.Tick,
		"elapsed", in.Elapsed,
	)
}

func (c *Controller) bindAPI(api *arena.API) *goja.Object {
	num := func(call goja.FunctionCall, i int) float64 {
		return call.Argument(i).ToFloat()
	}
	return set(c.vm.NewObject(),
		"thrust", func(call goja.FunctionCall) goja.Value {
			return c.vm.ToValue(api.Thrust(num(call, 0)))
		},
		"brake", func(goja.FunctionCall) goja.Value {
			return c.vm.ToValue(api.Brake())
		},
		"turn", func(call goja.FunctionCall) goja.Value {
			return c.vm.ToValue(api.Turn(num(call, 0)))
		},
		"turnTurret", func(call goja.FunctionCall) goja.Value {
			return c.vm.ToValue(api.TurnTurret(num(call, 0)))
		},
		"scan", func(call goja.FunctionCall) goja.Value {
			return c.contacts(api.Scan(num(call, 0), optionalArc(call)))
		},
		"scanRelative", func(call goja.FunctionCall) goja.Value {
			return c.contacts(api.ScanRelative(num(call, 0), optionalArc(call)))
		},
		"fire", func(goja.FunctionCall) goja.Value {
			return c.vm.ToValue(api.Fire())
		},
		"overburn", func(call goja.FunctionCall) goja.Value {
			return c.vm.ToValue(api.Overburn(call.Argument(0).ToBoolean()))
		},
		"getAngleTo", func(call goja.FunctionCall) goja.Value {
			return c.vm.ToValue(api.AngleTo(num(call, 0), num(call, 1)))
		},
		"getDistanceTo", func(call goja.FunctionCall) goja.Value {
			return c.vm.ToValue(api.DistanceTo(num(call, 0), num(call, 1)))
		},
		"normalizeAngle", func(call goja.FunctionCall) goja.Value {
			return c.vm.ToValue(api.NormalizeAngle(num(call, 0)))
		},
		"getArenaSize", func(goja.FunctionCall) goja.Value {
			w, h := api.ArenaSize()
			return set(c.vm.NewObject(), "width", w, "height", h)
		},
	)
}

// optionalArc reads the arc argument; a missing one means the full sensor.
func optionalArc(call goja.FunctionCall) float64 {
	v := call.Argument(1)
	if goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return v.ToFloat()
}

// contacts converts scan results to a plain JS array. A refused sweep is an
// empty array so scripts can read .length unconditionally.
func (c *Controller) contacts(cs []arena.Contact) *goja.Object {
	items := make([]any, len(cs))
	for i, ct := range cs {
		vel := set(c.vm.NewObject(), "x", ct.VelX, "y", ct.VelY, "speed", ct.Speed)
		items[i] = set(c.vm.NewObject(),
			"id", ct.ID,
			"x", ct.X,
			"y", ct.Y,
			"angle", ct.Heading,
			"velocity", vel,
			"distance", ct.Distance,
		)
	}
	return c.vm.NewArray(items...)
}

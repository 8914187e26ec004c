package validate

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jwebster45206/calamity-forge/pkg/affixspec"
	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
	"github.com/jwebster45206/calamity-forge/pkg/contract"
)

const triggerIncomingHit = "IncomingHit"

// conditionSeconds may sit on the runtime block or under runtime.conditions.
var conditionSeconds = []string{
	"requireRecentlyHitSeconds",
	"requireRecentlyKillSeconds",
	"requireNotHitRecentlySeconds",
}

// validateRuntime checks an affix runtime block. Optional numbers are only
// range-checked when present and are never defaulted.
func validateRuntime(def affixspec.Affix, c *contract.Contract) (affixspec.RuntimeBehavior, error) {
	id := def.ID
	rt := gjson.ParseBytes(def.Runtime)
	if len(def.Runtime) == 0 || !rt.IsObject() {
		return affixspec.RuntimeBehavior{}, compileerr.Schema(id+".runtime", "%s: runtime must be an object.", id)
	}

	var b affixspec.RuntimeBehavior

	trigger, ok := requiredString(rt, "trigger")
	if !ok {
		return b, compileerr.Schema(id+".runtime.trigger",
			"%s: runtime.trigger must be one of [%s].", id, c.TriggerList())
	}
	if !c.HasTrigger(trigger) {
		return b, compileerr.Contract(id+".runtime.trigger",
			"%s: runtime.trigger must be one of [%s].", id, c.TriggerList())
	}
	b.Trigger = trigger

	var err error
	if b.ProcChancePercent, err = optionalNumber(rt, id, "procChancePercent"); err != nil {
		return b, err
	}
	if v := b.ProcChancePercent; v != nil && (*v < 0 || *v > 100) {
		return b, compileerr.Contract(id+".runtime.procChancePercent",
			"%s: runtime.procChancePercent must be in range 0..100 (got: %v).", id, *v)
	}
	if b.ICDSeconds, err = nonNegative(rt, id, "icdSeconds"); err != nil {
		return b, err
	}
	if b.PerTargetICDSeconds, err = nonNegative(rt, id, "perTargetICDSeconds"); err != nil {
		return b, err
	}
	if b.LootWeight, err = nonNegative(rt, id, "lootWeight"); err != nil {
		return b, err
	}

	conditions := rt.Get("conditions")
	for _, key := range conditionSeconds {
		src := rt
		if !rt.Get(key).Exists() && conditions.IsObject() {
			src = conditions
		}
		if _, err := nonNegative(src, id, key); err != nil {
			return b, err
		}
	}
	if v, err := optionalNumber(rt, id, "luckyHitChancePercent"); err != nil {
		return b, err
	} else if v != nil && (*v < 0 || *v > 100) {
		return b, compileerr.Contract(id+".runtime.luckyHitChancePercent",
			"%s: runtime.luckyHitChancePercent must be in range 0..100 (got: %v).", id, *v)
	}
	if v, err := optionalNumber(rt, id, "luckyHitProcCoefficient"); err != nil {
		return b, err
	} else if v != nil && *v <= 0 {
		return b, compileerr.Contract(id+".runtime.luckyHitProcCoefficient",
			"%s: runtime.luckyHitProcCoefficient must be > 0 (got: %v).", id, *v)
	}

	action := rt.Get("action")
	if !action.IsObject() {
		return b, compileerr.Schema(id+".runtime.action", "%s: runtime.action must be an object.", id)
	}
	actionType, ok := requiredString(action, "type")
	if !ok {
		return b, compileerr.Schema(id+".runtime.action.type",
			"%s: runtime.action.type must be one of [%s].", id, c.ActionTypeList())
	}
	if !c.HasActionType(actionType) {
		return b, compileerr.Contract(id+".runtime.action.type",
			"%s: runtime.action.type must be one of [%s].", id, c.ActionTypeList())
	}

	b.Action, err = affixspec.DecodeAction([]byte(action.Raw))
	if err != nil {
		return b, compileerr.Schema(id+".runtime.action", "%s: runtime.action is malformed: %v", id, err)
	}
	if err := b.Action.Validate(); err != nil {
		return b, compileerr.Contract(id+".runtime.action", "%s: runtime.action: %v.", id, err)
	}
	if actionType == affixspec.ActionMindOverMatter && trigger != triggerIncomingHit {
		return b, compileerr.Contract(id+".runtime.trigger",
			"%s: MindOverMatter requires trigger=IncomingHit (current trigger=%s).", id, trigger)
	}
	return b, nil
}

// requiredString returns a present, non-blank string property.
func requiredString(parent gjson.Result, key string) (string, bool) {
	v := parent.Get(key)
	if v.Type != gjson.String || strings.TrimSpace(v.Str) == "" {
		return "", false
	}
	return v.Str, true
}

func optionalNumber(parent gjson.Result, id, key string) (*float64, error) {
	v := parent.Get(key)
	if !v.Exists() {
		return nil, nil
	}
	if v.Type != gjson.Number {
		return nil, compileerr.Schema(id+".runtime."+key, "%s: runtime.%s must be a number.", id, key)
	}
	n := v.Num
	return &n, nil
}

func nonNegative(parent gjson.Result, id, key string) (*float64, error) {
	v, err := optionalNumber(parent, id, key)
	if err != nil || v == nil {
		return v, err
	}
	if *v < 0 {
		return nil, compileerr.Contract(id+".runtime."+key, "%s: runtime.%s must be >= 0 (got: %v).", id, key, *v)
	}
	return v, nil
}

// v0
// internal/plan/rules.go
package plan

import (
	"fmt"

	"tumbuhkan/hydro/internal/taxonomy"
)

// Command is a fully specified state for all six actuators. Every command
// put on the wire carries all six fields, so receivers never need history
// to apply one.
type Command struct {
	PumpNutritionAB bool `json:"pump_nutrition_AB"`
	PumpWater       bool `json:"pump_water"`
	PumpPhUp        bool `json:"pump_Ph_Up"`
	PumpPhDown      bool `json:"pump_Ph_Down"`
	Fan             bool `json:"fan"`
	LED             bool `json:"led"`
}

// ActuatorKeys lists the wire names of all actuators in display order.
var ActuatorKeys = []string{
	"pump_nutrition_AB",
	"pump_water",
	"pump_Ph_Up",
	"pump_Ph_Down",
	"fan",
	"led",
}

// Derive maps a LabelSet to the actuator command that corrects it. Pure and
// stateless: the same LabelSet always yields the same command. Conditions
// are independent, so several actuators may engage at once; only the pH
// pumps are mutually exclusive, by construction on the single pH label.
func Derive(ls taxonomy.LabelSet) Command {
	var cmd Command

	switch ls.PH {
	case taxonomy.TooLow, taxonomy.Low:
		cmd.PumpPhUp = true
	case taxonomy.TooHigh, taxonomy.High:
		cmd.PumpPhDown = true
	}

	switch ls.TDS {
	case taxonomy.TooLow, taxonomy.Low:
		cmd.PumpNutritionAB = true
	case taxonomy.TooHigh, taxonomy.High:
		cmd.PumpWater = true
	}

	if ls.Ambient == taxonomy.Bad || ls.Ambient == taxonomy.SlightlyOff {
		cmd.Fan = true
	}
	if ls.Light == taxonomy.TooDark {
		cmd.LED = true
	}
	return cmd
}

// Get returns the state of one actuator by wire name.
func (c Command) Get(name string) (bool, error) {
	switch name {
	case "pump_nutrition_AB":
		return c.PumpNutritionAB, nil
	case "pump_water":
		return c.PumpWater, nil
	case "pump_Ph_Up":
		return c.PumpPhUp, nil
	case "pump_Ph_Down":
		return c.PumpPhDown, nil
	case "fan":
		return c.Fan, nil
	case "led":
		return c.LED, nil
	default:
		return false, fmt.Errorf("unknown actuator %q", name)
	}
}

// Set updates the state of one actuator by wire name.
func (c *Command) Set(name string, state bool) error {
	switch name {
	case "pump_nutrition_AB":
		c.PumpNutritionAB = state
	case "pump_water":
		c.PumpWater = state
	case "pump_Ph_Up":
		c.PumpPhUp = state
	case "pump_Ph_Down":
		c.PumpPhDown = state
	case "fan":
		c.Fan = state
	case "led":
		c.LED = state
	default:
		return fmt.Errorf("unknown actuator %q", name)
	}
	return nil
}

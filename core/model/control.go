package model

import "fmt"

// Control is a typed control value submitted to an asset. The closed set of
// variants is DiscreteControl and ContinuousControl.
type Control interface {
	fmt.Stringer
	isControl()
}

// DiscreteControl is a discrete control level, the only kind currently
// supported by the asset variants.
type DiscreteControl struct {
	Level int
}

func (DiscreteControl) isControl() {}

// String returns a human-readable representation of the control.
func (c DiscreteControl) String() string { return fmt.Sprintf("level(%d)", c.Level) }

// ContinuousControl is a continuous control setpoint. Declared for forward
// compatibility; every current asset variant rejects it.
type ContinuousControl struct {
	Value float64
}

func (ContinuousControl) isControl() {}

// String returns a human-readable representation of the control.
func (c ContinuousControl) String() string { return fmt.Sprintf("setpoint(%g)", c.Value) }

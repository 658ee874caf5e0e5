// Package units parses the time/power/energy unit tags that appear in
// TOML input and CSV output, covering the day/week/year time units and
// the power/energy unit families alongside the base second/watt/joule
// conversions.
package units

import "fmt"

// TimeUnit identifies a duration unit.
type TimeUnit int

const (
	Second TimeUnit = iota
	Minute
	Hour
	Day
	Week
	Year
)

// TagToTimeUnit parses a TOML duration-unit tag.
func TagToTimeUnit(tag string) (TimeUnit, bool) {
	switch tag {
	case "s", "sec", "secs", "second", "seconds":
		return Second, true
	case "min", "mins", "minute", "minutes":
		return Minute, true
	case "h", "hr", "hrs", "hour", "hours":
		return Hour, true
	case "day", "days":
		return Day, true
	case "week", "weeks":
		return Week, true
	case "year", "years", "yr", "yrs":
		return Year, true
	default:
		return 0, false
	}
}

// TimeUnitToTag returns the canonical tag for unit.
func TimeUnitToTag(unit TimeUnit) string {
	switch unit {
	case Second:
		return "s"
	case Minute:
		return "min"
	case Hour:
		return "h"
	case Day:
		return "day"
	case Week:
		return "week"
	case Year:
		return "year"
	default:
		return fmt.Sprintf("TimeUnit(%d)", int(unit))
	}
}

// TimeToSeconds converts t, expressed in unit, to seconds. Ported from
// Time_ToSeconds, extended with the additional calendar-ish units; a
// year is treated as 365 days, consistent with the original's preference
// for a fixed conversion factor over calendar-aware arithmetic elsewhere
// in the engine.
func TimeToSeconds(t float64, unit TimeUnit) (float64, error) {
	switch unit {
	case Second:
		return t, nil
	case Minute:
		return t * 60.0, nil
	case Hour:
		return t * 3600.0, nil
	case Day:
		return t * 86400.0, nil
	case Week:
		return t * 604800.0, nil
	case Year:
		return t * 365.0 * 86400.0, nil
	default:
		return 0, fmt.Errorf("unhandled time unit %q", TimeUnitToTag(unit))
	}
}

// PowerUnit identifies a power unit (base unit: Watts).
type PowerUnit int

const (
	Watt PowerUnit = iota
	Kilowatt
	Megawatt
)

func TagToPowerUnit(tag string) (PowerUnit, bool) {
	switch tag {
	case "W":
		return Watt, true
	case "kW":
		return Kilowatt, true
	case "MW":
		return Megawatt, true
	default:
		return 0, false
	}
}

func PowerUnitToTag(unit PowerUnit) string {
	switch unit {
	case Watt:
		return "W"
	case Kilowatt:
		return "kW"
	case Megawatt:
		return "MW"
	default:
		return fmt.Sprintf("PowerUnit(%d)", int(unit))
	}
}

// PowerToWatts converts p, expressed in unit, to watts.
func PowerToWatts(p float64, unit PowerUnit) (float64, error) {
	switch unit {
	case Watt:
		return p, nil
	case Kilowatt:
		return p * 1e3, nil
	case Megawatt:
		return p * 1e6, nil
	default:
		return 0, fmt.Errorf("unhandled power unit %q", PowerUnitToTag(unit))
	}
}

// EnergyUnit identifies an energy unit (base unit: Joules).
type EnergyUnit int

const (
	Joule EnergyUnit = iota
	Kilojoule
	Megajoule
	WattHour
	KilowattHour
	MegawattHour
)

func TagToEnergyUnit(tag string) (EnergyUnit, bool) {
	switch tag {
	case "J":
		return Joule, true
	case "kJ":
		return Kilojoule, true
	case "MJ":
		return Megajoule, true
	case "Wh":
		return WattHour, true
	case "kWh":
		return KilowattHour, true
	case "MWh":
		return MegawattHour, true
	default:
		return 0, false
	}
}

func EnergyUnitToTag(unit EnergyUnit) string {
	switch unit {
	case Joule:
		return "J"
	case Kilojoule:
		return "kJ"
	case Megajoule:
		return "MJ"
	case WattHour:
		return "Wh"
	case KilowattHour:
		return "kWh"
	case MegawattHour:
		return "MWh"
	default:
		return fmt.Sprintf("EnergyUnit(%d)", int(unit))
	}
}

// EnergyToJoules converts e, expressed in unit, to joules.
func EnergyToJoules(e float64, unit EnergyUnit) (float64, error) {
	switch unit {
	case Joule:
		return e, nil
	case Kilojoule:
		return e * 1e3, nil
	case Megajoule:
		return e * 1e6, nil
	case WattHour:
		return e * 3600.0, nil
	case KilowattHour:
		return e * 3600.0e3, nil
	case MegawattHour:
		return e * 3600.0e6, nil
	default:
		return 0, fmt.Errorf("unhandled energy unit %q", EnergyUnitToTag(unit))
	}
}

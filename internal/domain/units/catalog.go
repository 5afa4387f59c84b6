package units

// Builtin returns the compiled-in dimension definitions in selector order.
// Factors are relative to each dimension's base unit.
func Builtin() []DimensionDef {
	return []DimensionDef{
		length(),
		area(),
		timeDim(),
		mass(),
		velocity(),
		volume(),
		data(),
		acceleration(),
		temperature(),
	}
}

func lin(id, name string, factor float64, aliases ...string) Unit {
	return Unit{ID: id, Name: name, Aliases: aliases, Rule: LinearRule(factor)}
}

func length() DimensionDef {
	return DimensionDef{
		Key:  "Length",
		Base: "m",
		Units: []Unit{
			lin("m", "meter", 1, "meter", "metre"),
			lin("km", "kilometer", 1000, "kilometer", "kilometre"),
			lin("cm", "centimeter", 0.01, "centimeter", "centimetre"),
			lin("mm", "millimeter", 0.001, "millimeter", "millimetre"),
			lin("mi", "mile", 1609.34, "mile"),
			lin("yd", "yard", 0.9144, "yard"),
			lin("ft", "foot", 0.3048, "foot", "feet"),
			lin("in", "inch", 0.0254, "inch"),
			lin("nmi", "nautical mile", 1852, "nautical mile"),
		},
	}
}

func area() DimensionDef {
	sq := func(id, name string, factor float64) Unit {
		short := id[:len(id)-1]
		return lin(id, name, factor, "sq "+short, "square "+short, name)
	}
	return DimensionDef{
		Key:  "Area",
		Base: "m2",
		Units: []Unit{
			sq("m2", "square meter", 1),
			sq("km2", "square kilometer", 1_000_000),
			sq("cm2", "square centimeter", 0.0001),
			sq("mm2", "square millimeter", 0.000001),
			lin("ha", "hectare", 10000, "hectare"),
			lin("ac", "acre", 4046.86, "acre"),
			sq("mi2", "square mile", 2_589_988.11),
			sq("yd2", "square yard", 0.836127),
			sq("ft2", "square foot", 0.092903),
			sq("in2", "square inch", 0.00064516),
		},
	}
}

func timeDim() DimensionDef {
	return DimensionDef{
		Key:  "Time",
		Base: "s",
		Units: []Unit{
			lin("ms", "millisecond", 0.001, "millisecond"),
			lin("s", "second", 1, "sec", "second"),
			lin("min", "minute", 60, "minute"),
			lin("hr", "hour", 3600, "h", "hour"),
			lin("d", "day", 86400, "day"),
			lin("wk", "week", 604800, "week"),
			lin("yr", "year", 31_536_000, "year"), // 365 days
		},
	}
}

func mass() DimensionDef {
	return DimensionDef{
		Key:  "Mass",
		Base: "kg",
		Units: []Unit{
			lin("mg", "milligram", 0.000001, "milligram"),
			lin("g", "gram", 0.001, "gram"),
			lin("kg", "kilogram", 1, "kilogram"),
			lin("t", "metric ton", 1000, "tonne", "metric ton"),
			lin("oz", "ounce", 0.0283495, "ounce"),
			lin("lb", "pound", 0.453592, "lbs", "pound"),
		},
	}
}

func velocity() DimensionDef {
	return DimensionDef{
		Key:  "Velocity",
		Base: "m/s",
		Units: []Unit{
			lin("m/s", "meter per second", 1, "mps"),
			lin("km/h", "kilometer per hour", 1/3.6, "kph", "kmh"),
			lin("mph", "mile per hour", 0.44704),
			lin("ft/s", "foot per second", 0.3048, "fps"),
			lin("kn", "knot", 0.514444, "knot", "kt"),
		},
	}
}

func volume() DimensionDef {
	return DimensionDef{
		Key:  "Volume",
		Base: "l",
		Units: []Unit{
			lin("ml", "milliliter", 0.001, "milliliter"),
			lin("cl", "centiliter", 0.01, "centiliter"),
			lin("dl", "deciliter", 0.1, "deciliter"),
			lin("l", "liter", 1, "liter", "litre"),
			lin("m3", "cubic meter", 1000, "cubic meter"),
			lin("cm3", "cubic centimeter", 0.001, "cubic centimeter", "cc"),
			lin("mm3", "cubic millimeter", 0.000001, "cubic millimeter"),
			lin("gal", "US gallon", 3.78541, "gallon"),
			lin("qt", "US quart", 0.946353, "quart"),
			lin("pt", "US pint", 0.473176, "pint"),
			lin("fl oz", "US fluid ounce", 0.0295735, "floz", "fluid ounce"),
			lin("cup", "cup", 0.24),
			lin("tbsp", "tablespoon", 0.0147868, "tablespoon"),
			lin("tsp", "teaspoon", 0.00492892, "teaspoon"),
		},
	}
}

// data uses binary multiples (1 kb = 1024 bytes), ordered by size.
func data() DimensionDef {
	const k = 1024.0
	return DimensionDef{
		Key:  "Data",
		Base: "byte",
		Units: []Unit{
			lin("bit", "bit", 0.125),
			lin("byte", "byte", 1, "B"),
			lin("kbit", "kilobit", k/8, "kilobit"),
			lin("kb", "kilobyte", k, "kilobyte"),
			lin("mbit", "megabit", k*k/8, "megabit"),
			lin("mb", "megabyte", k*k, "megabyte"),
			lin("gbit", "gigabit", k*k*k/8, "gigabit"),
			lin("gb", "gigabyte", k*k*k, "gigabyte"),
			lin("tbit", "terabit", k*k*k*k/8, "terabit"),
			lin("tb", "terabyte", k*k*k*k, "terabyte"),
			lin("pb", "petabyte", k*k*k*k*k, "petabyte"),
		},
	}
}

func acceleration() DimensionDef {
	return DimensionDef{
		Key:  "Acceleration",
		Base: "m/s2",
		Units: []Unit{
			lin("m/s2", "meter per second squared", 1, "mps2"),
			lin("km/h/s", "kilometer per hour per second", 1/3.6, "kmh/s"),
			lin("ft/s2", "foot per second squared", 0.3048, "fps2"),
			lin("g", "standard gravity", 9.80665),
		},
	}
}

// temperature uses Celsius as the base. Fahrenheit and Kelvin are affine.
func temperature() DimensionDef {
	return DimensionDef{
		Key:  "Temperature",
		Base: "C",
		Units: []Unit{
			{
				ID: "C", Name: "Celsius", Symbol: "°C",
				Aliases: []string{"Celsius", "°C", "degC"},
				Rule:    LinearRule(1),
			},
			{
				ID: "F", Name: "Fahrenheit", Symbol: "°F",
				Aliases: []string{"Fahrenheit", "°F", "degF"},
				Rule: AffineRule(
					func(f float64) float64 { return (f - 32) * 5 / 9 },
					func(c float64) float64 { return c*9/5 + 32 },
					"°C = (°F - 32) × 5/9",
					"°F = °C × 9/5 + 32",
				),
			},
			{
				ID: "K", Name: "Kelvin", Symbol: "K",
				Aliases: []string{"Kelvin"},
				Rule: AffineRule(
					func(k float64) float64 { return k - 273.15 },
					func(c float64) float64 { return c + 273.15 },
					"°C = K - 273.15",
					"K = °C + 273.15",
				),
			},
		},
	}
}

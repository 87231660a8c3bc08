package mapping

//go:generate go tool stringer -type=Side,Direction -output=side_string.go

// Side names one of the two namespaces of an ArchiveMapping.
type Side uint8

const (
	_ Side = iota

	// Real is the namespace of the original developer names.
	Real
	// Fake is the namespace of the names carried by the distributed archive.
	Fake
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Real {
		return Fake
	}

	return Real
}

// Direction selects which way names are translated.
type Direction uint8

const (
	_ Direction = iota

	// ToReal translates fake names into real names.
	ToReal
	// ToFake translates real names into fake names.
	ToFake
)

// Target returns the side results are expressed in.
func (d Direction) Target() Side {
	if d == ToReal {
		return Real
	}

	return Fake
}

// Source returns the side lookup keys are expressed in.
func (d Direction) Source() Side {
	return d.Target().Opposite()
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == ToReal {
		return ToFake
	}

	return ToReal
}
